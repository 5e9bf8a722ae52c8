// Package transfer moves legacy entities between tables, validating every
// record through its field table on the way.
package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ahardinathillc/whippet-sub000/internal/infrastructure/logger"
	"github.com/ahardinathillc/whippet-sub000/internal/infrastructure/telemetry"
	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

// Source streams the rows of a table.
type Source interface {
	Scan(ctx context.Context, schema *marshal.TableSchema, fn func(*record.Row) error) error
}

// Sink stores rows into a table.
type Sink interface {
	Insert(ctx context.Context, schema *marshal.TableSchema, row *record.Row) error
}

const defaultMaxRejections = 100

type options struct {
	sourceDir     *mapping.Directory
	targetDir     *mapping.Directory
	finder        marshal.Finder
	log           *zap.Logger
	tracer        trace.Tracer
	metrics       *telemetry.TransferMetrics
	workers       int
	rejectLimit   int
	maxRejections int
	progressEvery int
	dryRun        bool
}

// Option configures a Pipeline
type Option func(*options)

// WithSourceDirectory reads records laid out by dir instead of the entity's
// default directory.
func WithSourceDirectory(dir *mapping.Directory) Option {
	return func(o *options) { o.sourceDir = dir }
}

// WithTargetDirectory writes records laid out by dir instead of the
// entity's default directory.
func WithTargetDirectory(dir *mapping.Directory) Option {
	return func(o *options) { o.targetDir = dir }
}

// WithResolver loads every referenced sub-entity through finder before the
// record is written. An unknown reference rejects the record.
func WithResolver(finder marshal.Finder) Option {
	return func(o *options) { o.finder = finder }
}

// WithLogger sets the logger for the run.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracer traces each run, and the records it rejects, through tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// WithMetrics counts the records of each run on m.
func WithMetrics(m *telemetry.TransferMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithWorkers sets how many records are processed concurrently.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRejectLimit aborts the run once more than n records are rejected.
// Zero means no limit.
func WithRejectLimit(n int) Option {
	return func(o *options) { o.rejectLimit = n }
}

// WithMaxRejections caps the rejection details kept in the report.
func WithMaxRejections(n int) Option {
	return func(o *options) { o.maxRejections = n }
}

// WithProgressEvery logs progress after every n records read. Zero
// disables progress logging.
func WithProgressEvery(n int) Option {
	return func(o *options) { o.progressEvery = n }
}

// WithDryRun validates and projects every record without writing it.
func WithDryRun() Option {
	return func(o *options) { o.dryRun = true }
}

// Pipeline transfers entities of type E from a source table to a target
// table. Records that fail hydration, resolution or projection are rejected
// and counted; source and sink failures abort the run.
type Pipeline[E any] struct {
	table  *marshal.Table[E]
	source Source
	sink   Sink
	opts   options
}

// NewPipeline creates a pipeline for table reading from source and writing
// to sink.
func NewPipeline[E any](table *marshal.Table[E], source Source, sink Sink, opts ...Option) *Pipeline[E] {
	o := options{
		workers:       1,
		maxRejections: defaultMaxRejections,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sourceDir == nil {
		o.sourceDir = table.Directory()
	}
	if o.targetDir == nil {
		o.targetDir = table.Directory()
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.tracer == nil {
		o.tracer = telemetry.Tracer()
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return &Pipeline[E]{table: table, source: source, sink: sink, opts: o}
}

// run holds the mutable state of one Run.
type run[E any] struct {
	p      *Pipeline[E]
	source *marshal.TableSchema
	target *marshal.TableSchema
	log    *logger.ContextLogger

	mu     sync.Mutex
	report *Report
}

// Run performs one transfer. The report is returned even when the run
// aborts, describing the work done up to that point.
func (p *Pipeline[E]) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{
		RunID:  uuid.New(),
		Entity: p.table.Entity(),
		Source: p.opts.sourceDir.Table(),
		Target: p.opts.targetDir.Table(),
		DryRun: p.opts.dryRun,
	}
	ctx, span := p.opts.tracer.Start(ctx, "transfer.run", trace.WithAttributes(
		telemetry.AttrEntity.String(report.Entity),
		telemetry.AttrRunID.String(report.RunID.String()),
		attribute.String("whippet.source", report.Source),
		attribute.String("whippet.target", report.Target),
		attribute.Bool("whippet.dry_run", report.DryRun),
	))
	defer span.End()
	report.TraceID = telemetry.TraceID(ctx)

	ctx = logger.WithContext(ctx, p.opts.log)
	ctx = logger.WithRunID(ctx, report.RunID.String())
	ctx = logger.WithEntity(ctx, report.Entity)
	log := logger.L(ctx)

	source, err := p.table.DeriveSchema(p.opts.sourceDir)
	if err != nil {
		err = fmt.Errorf("source layout: %w", err)
		telemetry.RecordError(span, err)
		return report, err
	}
	target, err := p.table.DeriveSchema(p.opts.targetDir)
	if err != nil {
		err = fmt.Errorf("target layout: %w", err)
		telemetry.RecordError(span, err)
		return report, err
	}

	log.Info("transfer started",
		zap.String("source", report.Source),
		zap.String("target", report.Target),
		zap.Int("workers", p.opts.workers),
		zap.Bool("dry_run", p.opts.dryRun),
	)

	r := &run[E]{p: p, source: source, target: target, log: log, report: report}
	err = r.execute(ctx)
	report.Duration = time.Since(started)
	r.finish(ctx, span, err)

	fields := []zap.Field{
		zap.Int("read", report.Read),
		zap.Int("written", report.Written),
		zap.Int("rejected", report.Rejected),
		zap.Duration("duration", report.Duration),
	}
	if err != nil {
		log.Error("transfer aborted", append(fields, zap.Error(err))...)
		return report, err
	}
	log.Info("transfer finished", fields...)
	return report, nil
}

// finish publishes the run totals to span and the transfer metrics.
func (r *run[E]) finish(ctx context.Context, span trace.Span, err error) {
	rep := r.report
	span.SetAttributes(
		attribute.Int("whippet.read", rep.Read),
		attribute.Int("whippet.written", rep.Written),
		attribute.Int("whippet.rejected", rep.Rejected),
	)
	status := "ok"
	if err != nil {
		status = "aborted"
		telemetry.RecordError(span, err)
	} else {
		telemetry.SetOK(span)
	}

	m := r.p.opts.metrics
	m.AddRecords(ctx, rep.Entity, telemetry.OutcomeRead, int64(rep.Read))
	m.AddRecords(ctx, rep.Entity, telemetry.OutcomeWritten, int64(rep.Written))
	m.AddRecords(ctx, rep.Entity, telemetry.OutcomeRejected, int64(rep.Rejected))
	m.ObserveRun(ctx, rep.Entity, status, rep.Duration)
}

func (r *run[E]) execute(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	rows := make(chan *record.Row, r.p.opts.workers)

	g.Go(func() error {
		defer close(rows)
		return r.p.source.Scan(gctx, r.source, func(row *record.Row) error {
			select {
			case rows <- row:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	for range r.p.opts.workers {
		g.Go(func() error {
			for row := range rows {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := r.process(gctx, row); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// process transfers one record. It returns an error only when the run must
// stop.
func (r *run[E]) process(ctx context.Context, row *record.Row) error {
	r.read()

	out, err := r.convert(ctx, row)
	if err != nil {
		if !marshal.IsRejection(err) {
			return err
		}
		return r.reject(ctx, row, err)
	}

	if !r.p.opts.dryRun {
		if err := r.p.sink.Insert(ctx, r.target, out); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.report.Written++
	r.mu.Unlock()
	return nil
}

func (r *run[E]) convert(ctx context.Context, row *record.Row) (*record.Row, error) {
	e := r.p.table.New()
	if err := r.p.table.HydrateWith(e, row, r.p.opts.sourceDir); err != nil {
		return nil, err
	}
	if r.p.opts.finder != nil {
		if err := r.p.table.Resolve(ctx, e, r.p.opts.finder); err != nil {
			return nil, err
		}
	}
	return r.p.table.ProjectWith(e, r.p.opts.targetDir)
}

func (r *run[E]) read() {
	r.mu.Lock()
	r.report.Read++
	n := r.report.Read
	r.mu.Unlock()

	if every := r.p.opts.progressEvery; every > 0 && n%every == 0 {
		r.log.Info("transfer progress", zap.Int("read", n))
	}
}

func (r *run[E]) reject(ctx context.Context, row *record.Row, err error) error {
	var key any
	if r.source.PrimaryKey != "" {
		key, _ = row.Value(r.source.PrimaryKey)
	}
	rej := newRejection(key, err)
	trace.SpanFromContext(ctx).AddEvent("record rejected", trace.WithAttributes(
		attribute.String("whippet.key", fmt.Sprint(key)),
		attribute.String("whippet.field", rej.Field),
		attribute.String("whippet.column", rej.Column),
		attribute.String("error", err.Error()),
	))
	r.log.Warn("record rejected",
		zap.Any("key", key),
		zap.String("field", rej.Field),
		zap.String("column", rej.Column),
		zap.Error(err),
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Rejected++
	if len(r.report.Rejections) < r.p.opts.maxRejections {
		r.report.Rejections = append(r.report.Rejections, rej)
	} else {
		r.report.Truncated = true
	}
	if limit := r.p.opts.rejectLimit; limit > 0 && r.report.Rejected > limit {
		return &RejectLimitError{Limit: limit}
	}
	return nil
}
