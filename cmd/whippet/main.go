// Command whippet derives, creates and checks legacy ERP tables and moves
// entities between them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ahardinathillc/whippet-sub000/internal/application/transfer"
	"github.com/ahardinathillc/whippet-sub000/internal/infrastructure/config"
	"github.com/ahardinathillc/whippet-sub000/internal/infrastructure/logger"
	"github.com/ahardinathillc/whippet-sub000/internal/infrastructure/persistence"
	"github.com/ahardinathillc/whippet-sub000/internal/infrastructure/telemetry"
	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "whippet: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	cfg       *config.Config
	log       *zap.Logger
	overrides *mapping.Overrides
	stdout    io.Writer

	tracer  *telemetry.TracerProvider
	meter   *telemetry.MeterProvider
	metrics *telemetry.TransferMetrics

	dryRun  bool
	resolve bool
	workers int
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("whippet", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath string
		logLevel   string
		c          = &cli{stdout: stdout}
	)
	fs.StringVar(&configPath, "config", "", "Path to config file (default: ./config.toml or /etc/whippet/config.toml)")
	fs.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: from config)")
	fs.BoolVar(&c.dryRun, "dry-run", false, "Validate a transfer without writing")
	fs.BoolVar(&c.resolve, "resolve", true, "Load referenced entities during a transfer")
	fs.IntVar(&c.workers, "workers", 1, "Records processed concurrently during a transfer")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}
	command, rest := rest[0], rest[1:]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	c.cfg = cfg

	c.log, err = logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync(c.log)

	shutdown, err := c.startTelemetry(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	if path := cfg.Mapping.OverridesFile; path != "" {
		c.overrides, err = mapping.LoadOverridesFile(path)
		if err != nil {
			return err
		}
		c.log.Info("directory overrides loaded",
			zap.String("path", path),
			zap.Strings("entities", c.overrides.Entities()),
		)
	}

	switch command {
	case "entities":
		for _, name := range entityNames {
			fmt.Fprintln(stdout, name)
		}
		return nil
	case "schema":
		if len(rest) != 1 {
			return errUsage
		}
		return c.schema(rest[0])
	case "ensure":
		if len(rest) != 1 {
			return errUsage
		}
		return c.withDatabase(func(db *persistence.Database) error {
			return c.ensure(ctx, db, rest[0])
		})
	case "transfer":
		if len(rest) != 3 {
			return errUsage
		}
		return c.withDatabase(func(db *persistence.Database) error {
			return c.transfer(ctx, db, rest[0], rest[1], rest[2])
		})
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func (c *cli) entity(name string) (entityCommands, error) {
	if !knownEntity(name) {
		return entityCommands{}, fmt.Errorf("unknown entity %q (known: %s)", name, strings.Join(entityNames, ", "))
	}
	return catalog[name], nil
}

// startTelemetry sets up tracing and metrics. The returned function flushes
// and stops both providers.
func (c *cli) startTelemetry(ctx context.Context) (func(), error) {
	tcfg := telemetry.ConfigFrom(c.cfg)

	var err error
	c.tracer, err = telemetry.NewTracerProvider(ctx, tcfg, c.log)
	if err != nil {
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}
	c.meter, err = telemetry.NewMeterProvider(ctx, tcfg, c.log)
	if err != nil {
		_ = c.tracer.Shutdown(ctx)
		return nil, fmt.Errorf("initialize metrics: %w", err)
	}
	c.metrics, err = telemetry.NewTransferMetrics(c.meter.Meter(telemetry.TracerName))
	if err != nil {
		return nil, err
	}

	return func() {
		// ctx may already be canceled by a signal; flush regardless.
		ctx := context.WithoutCancel(ctx)
		if err := c.meter.Shutdown(ctx); err != nil {
			c.log.Warn("metrics shutdown failed", zap.Error(err))
		}
		if err := c.tracer.Shutdown(ctx); err != nil {
			c.log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}, nil
}

func (c *cli) withDatabase(fn func(*persistence.Database) error) error {
	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = c.cfg.Telemetry.Enabled && c.cfg.Telemetry.DBTracing
	tracing.LogFullSQL = c.cfg.Telemetry.LogFullSQL
	tracing.SlowQueryThresh = c.cfg.Database.SlowThreshold
	if c.cfg.Database.Driver == config.DriverSQLite {
		tracing.DBSystem = "sqlite"
	}

	db, err := persistence.NewDatabase(&c.cfg.Database, c.log,
		persistence.WithTracing(tracing, c.tracer.Provider()))
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func (c *cli) schema(name string) error {
	ec, err := c.entity(name)
	if err != nil {
		return err
	}
	dir, err := ec.directory(c.overrides)
	if err != nil {
		return err
	}
	s, err := ec.schema(dir)
	if err != nil {
		return err
	}
	dialect, err := persistence.Dialector(&c.cfg.Database)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.stdout, "%s;\n", persistence.RenderDDL(dialect, s))
	return err
}

// ensure creates or validates the table of one entity, or of every entity
// when name is "all".
func (c *cli) ensure(ctx context.Context, db *persistence.Database, name string) error {
	names := []string{name}
	if name == "all" {
		names = entityNames
	}

	reg := persistence.NewRegistry(db.DB, c.log)
	var failed []error
	for _, n := range names {
		ec, err := c.entity(n)
		if err != nil {
			return err
		}
		dir, err := ec.directory(c.overrides)
		if err != nil {
			return err
		}
		s, err := ec.schema(dir)
		if err != nil {
			return err
		}
		if err := reg.Ensure(ctx, s); err != nil {
			if !errors.Is(err, persistence.ErrSchemaMismatch) {
				return err
			}
			failed = append(failed, err)
			continue
		}
		fmt.Fprintf(c.stdout, "%s\tok\n", s.Name)
	}
	return errors.Join(failed...)
}

func (c *cli) transfer(ctx context.Context, db *persistence.Database, name, sourceTable, targetTable string) error {
	ec, err := c.entity(name)
	if err != nil {
		return err
	}
	base, err := ec.directory(c.overrides)
	if err != nil {
		return err
	}
	sourceDir, err := base.WithTable(sourceTable)
	if err != nil {
		return err
	}
	targetDir, err := base.WithTable(targetTable)
	if err != nil {
		return err
	}

	target, err := ec.schema(targetDir)
	if err != nil {
		return err
	}
	if !c.dryRun {
		if err := persistence.NewRegistry(db.DB, c.log).Ensure(ctx, target); err != nil {
			return err
		}
	}

	store := persistence.NewStore(db.DB, c.log)
	opts := []transfer.Option{
		transfer.WithSourceDirectory(sourceDir),
		transfer.WithTargetDirectory(targetDir),
		transfer.WithLogger(c.log),
		transfer.WithTracer(c.tracer.Tracer(telemetry.TracerName)),
		transfer.WithMetrics(c.metrics),
		transfer.WithWorkers(c.workers),
		transfer.WithRejectLimit(c.cfg.Transfer.RejectLimit),
		transfer.WithProgressEvery(c.cfg.Transfer.ProgressEvery),
	}
	if c.resolve {
		opts = append(opts, transfer.WithResolver(transfer.NewSharedFinder(store)))
	}
	if c.dryRun {
		opts = append(opts, transfer.WithDryRun())
	}

	report, err := ec.transfer(ctx, store, store, opts...)
	if report != nil {
		printReport(c.stdout, report)
	}
	return err
}

func printReport(w io.Writer, r *transfer.Report) {
	fmt.Fprintf(w, "run %s: %s %s -> %s\n", r.RunID, r.Entity, r.Source, r.Target)
	if r.TraceID != "" {
		fmt.Fprintf(w, "  trace %s\n", r.TraceID)
	}
	fmt.Fprintf(w, "  read %d, written %d, rejected %d in %s\n", r.Read, r.Written, r.Rejected, r.Duration.Round(time.Millisecond))
	if r.DryRun {
		fmt.Fprintln(w, "  dry run: nothing written")
	}
	for _, rej := range r.Rejections {
		fmt.Fprintf(w, "  rejected %v: %v\n", rej.Key, rej.Err)
	}
	if r.Truncated {
		fmt.Fprintf(w, "  ... %d more rejections not shown\n", r.Rejected-len(r.Rejections))
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `whippet - legacy ERP table tool

Usage:
  whippet [flags] <command> [arguments]

Commands:
  entities                              List known entities
  schema <entity>                       Print the CREATE TABLE statement
  ensure <entity|all>                   Create missing tables, validate existing ones
  transfer <entity> <source> <target>   Copy entities from one table to another

Flags:
  -config string      Path to config file (default: ./config.toml)
  -log-level string   Log level: debug, info, warn, error (default: from config)
  -dry-run            Validate a transfer without writing
  -resolve            Load referenced entities during a transfer (default: true)
  -workers int        Records processed concurrently during a transfer (default: 1)

Environment Variables:
  WHIPPET_DATABASE_DRIVER, WHIPPET_DATABASE_HOST, WHIPPET_DATABASE_SQLITE_PATH,
  WHIPPET_MAPPING_OVERRIDES_FILE, WHIPPET_TRANSFER_REJECT_LIMIT,
  WHIPPET_TELEMETRY_ENABLED, WHIPPET_TELEMETRY_COLLECTOR_ENDPOINT, ...

Examples:
  # Show the customer layout as DDL
  whippet schema customer

  # Copy customers into a staging table, rejecting bad records
  whippet transfer customer AR_CUSTOMER STG_CUSTOMER
`)
}
