package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahardinathillc/whippet-sub000/internal/infrastructure/logger"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry creates legacy tables from derived schemas and checks existing
// tables against them.
type Registry struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRegistry creates a registry on db.
func NewRegistry(db *gorm.DB, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{db: db, log: log}
}

// DDL renders the CREATE TABLE statement for schema in the connection's
// dialect without executing it.
func (r *Registry) DDL(schema *marshal.TableSchema) string {
	return RenderDDL(r.db.Dialector, schema)
}

// RenderDDL renders the CREATE TABLE statement for schema in dialect. The
// dialector only quotes identifiers and need not be connected.
func RenderDDL(dialect gorm.Dialector, schema *marshal.TableSchema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quoteIdent(dialect, schema.Name))
	b.WriteString(" (\n")
	for i, c := range schema.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(quoteIdent(dialect, c.Name))
		b.WriteByte(' ')
		b.WriteString(sqlType(c))
		if !c.Nullable {
			b.WriteString(" NOT NULL")
		}
	}
	if schema.PrimaryKey != "" {
		b.WriteString(",\n  PRIMARY KEY (")
		b.WriteString(quoteIdent(dialect, schema.PrimaryKey))
		b.WriteByte(')')
	}
	b.WriteString("\n)")
	return b.String()
}

// Ensure creates the table for schema when it does not exist and otherwise
// validates the live table against it. Differences are reported together in
// a SchemaMismatchError.
func (r *Registry) Ensure(ctx context.Context, schema *marshal.TableSchema) error {
	db := r.db.WithContext(ctx)
	log := logger.WithLogger(ctx, r.log).With(zap.String("table", schema.Name))

	if !db.Migrator().HasTable(schema.Name) {
		if err := db.Exec(r.DDL(schema)).Error; err != nil {
			return fmt.Errorf("create table %s: %w", schema.Name, err)
		}
		log.Info("table created", zap.Int("columns", len(schema.Columns)))
		return nil
	}

	types, err := db.Migrator().ColumnTypes(schema.Name)
	if err != nil {
		return fmt.Errorf("inspect table %s: %w", schema.Name, err)
	}
	live := make([]liveColumn, 0, len(types))
	for _, ct := range types {
		lc := liveColumn{name: ct.Name()}
		if n, ok := ct.Nullable(); ok {
			lc.nullable, lc.nullKnown = n, true
		}
		if l, ok := ct.Length(); ok && l > 0 {
			lc.width = int(l)
		}
		live = append(live, lc)
	}

	if diffs := compareColumns(schema, live); len(diffs) > 0 {
		log.Warn("table does not match schema", zap.Strings("differences", diffs))
		return &SchemaMismatchError{Table: schema.Name, Differences: diffs}
	}
	log.Debug("table matches schema")
	return nil
}

// liveColumn is what the database reports about one existing column. A zero
// width means the database did not report one.
type liveColumn struct {
	name      string
	nullable  bool
	nullKnown bool
	width     int
}

func compareColumns(schema *marshal.TableSchema, live []liveColumn) []string {
	byName := make(map[string]liveColumn, len(live))
	for _, c := range live {
		byName[strings.ToUpper(c.name)] = c
	}

	var diffs []string
	for _, want := range schema.Columns {
		got, ok := byName[strings.ToUpper(want.Name)]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("column %s missing", want.Name))
			continue
		}
		if got.nullKnown && got.nullable != want.Nullable && !want.PrimaryKey {
			diffs = append(diffs, fmt.Sprintf("column %s nullable=%t, want %t", want.Name, got.nullable, want.Nullable))
		}
		if hasWidth(want) && got.width > 0 && got.width != want.MaxWidth {
			diffs = append(diffs, fmt.Sprintf("column %s width %d, want %d", want.Name, got.width, want.MaxWidth))
		}
	}
	return diffs
}

func hasWidth(c marshal.ColumnDef) bool {
	return c.MaxWidth > 0 && (c.Type == marshal.TypeText || c.Type == marshal.TypeChar)
}

func sqlType(c marshal.ColumnDef) string {
	switch c.Type {
	case marshal.TypeChar:
		return "CHAR(1)"
	case marshal.TypeBoolean:
		return "BOOLEAN"
	case marshal.TypeInteger:
		return "BIGINT"
	case marshal.TypeDecimal:
		return "NUMERIC(19,4)"
	case marshal.TypeTimestamp:
		return "TIMESTAMP"
	default:
		if c.MaxWidth > 0 {
			return fmt.Sprintf("VARCHAR(%d)", c.MaxWidth)
		}
		return "TEXT"
	}
}

// quote quotes an identifier the way the connection's dialect does.
func quote(db *gorm.DB, name string) string {
	return quoteIdent(db.Dialector, name)
}

func quoteIdent(dialect gorm.Dialector, name string) string {
	var b strings.Builder
	dialect.QuoteTo(&b, name)
	return b.String()
}
