package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahardinathillc/whippet-sub000/internal/infrastructure/logger"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStopScan may be returned by a Scan callback to end the scan early
// without error.
var ErrStopScan = errors.New("persistence: stop scan")

// Store reads and writes legacy rows laid out by a derived table schema.
type Store struct {
	db        *gorm.DB
	log       *zap.Logger
	batchSize int
}

// DefaultBatchSize is the number of rows Scan fetches per query.
const DefaultBatchSize = 500

// StoreOption configures a Store
type StoreOption func(*Store)

// WithBatchSize sets the number of rows Scan fetches per query. Zero or less
// fetches the whole table at once.
func WithBatchSize(n int) StoreOption {
	return func(s *Store) {
		s.batchSize = n
	}
}

var _ marshal.Finder = (*Store)(nil)

// NewStore creates a store on db.
func NewStore(db *gorm.DB, log *zap.Logger, opts ...StoreOption) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{db: db, log: log, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan streams every row of schema's table to fn in primary key order.
// Values are decoded into the canonical record types of their columns. Rows
// are fetched in batches and no cursor stays open while fn runs, so fn may
// use the same database.
func (s *Store) Scan(ctx context.Context, schema *marshal.TableSchema, fn func(*record.Row) error) error {
	query := s.selectSQL(schema)
	paged := schema.PrimaryKey != "" && s.batchSize > 0
	if schema.PrimaryKey != "" {
		query += " ORDER BY " + quote(s.db, schema.PrimaryKey)
	}

	for offset := 0; ; offset += s.batchSize {
		q := query
		if paged {
			q += fmt.Sprintf(" LIMIT %d OFFSET %d", s.batchSize, offset)
		}
		batch, err := s.fetch(ctx, schema, q)
		if err != nil {
			return fmt.Errorf("scan %s: %w", schema.Name, err)
		}
		s.log.Debug("batch fetched",
			zap.String("table", schema.Name),
			zap.Int("offset", offset),
			zap.Int("rows", len(batch)),
		)
		for _, row := range batch {
			if err := fn(row); err != nil {
				if errors.Is(err, ErrStopScan) {
					return nil
				}
				return err
			}
		}
		if !paged || len(batch) < s.batchSize {
			return nil
		}
	}
}

func (s *Store) fetch(ctx context.Context, schema *marshal.TableSchema, query string, args ...any) ([]*record.Row, error) {
	rows, err := s.db.WithContext(logger.WithTable(ctx, schema.Name)).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*record.Row
	for rows.Next() {
		row, err := s.decodeRow(rows, schema)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne loads the row of schema's table whose column equals value. It
// returns nil, nil when no row matches.
func (s *Store) FindOne(ctx context.Context, schema *marshal.TableSchema, column string, value any) (*record.Row, error) {
	if _, ok := schema.Column(column); !ok {
		return nil, &record.ColumnMissingError{Column: column}
	}
	query := s.selectSQL(schema) + " WHERE " + quote(s.db, column) + " = ? LIMIT 1"

	batch, err := s.fetch(ctx, schema, query, encode(value))
	if err != nil {
		return nil, fmt.Errorf("find %s.%s: %w", schema.Name, column, err)
	}
	if len(batch) == 0 {
		return nil, nil
	}
	return batch[0], nil
}

// Insert writes row into schema's table. Columns the row does not carry are
// left to the database default.
func (s *Store) Insert(ctx context.Context, schema *marshal.TableSchema, row *record.Row) error {
	columns := make([]string, 0, row.Len())
	args := make([]any, 0, row.Len())
	for _, c := range row.Columns() {
		if _, ok := schema.Column(c); !ok {
			return fmt.Errorf("insert %s: %w", schema.Name, &record.ColumnMissingError{Column: c})
		}
		v, _ := row.Value(c)
		columns = append(columns, quote(s.db, c))
		args = append(args, encode(v))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(s.db, schema.Name),
		strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)
	if err := s.db.WithContext(logger.WithTable(ctx, schema.Name)).Exec(query, args...).Error; err != nil {
		return fmt.Errorf("insert %s: %w", schema.Name, err)
	}
	return nil
}

// Count returns the number of rows in schema's table.
func (s *Store) Count(ctx context.Context, schema *marshal.TableSchema) (int64, error) {
	var n int64
	if err := s.db.WithContext(logger.WithTable(ctx, schema.Name)).Table(schema.Name).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", schema.Name, err)
	}
	return n, nil
}

func (s *Store) selectSQL(schema *marshal.TableSchema) string {
	columns := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		columns[i] = quote(s.db, c.Name)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), quote(s.db, schema.Name))
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) decodeRow(rows scanner, schema *marshal.TableSchema) (*record.Row, error) {
	raw := make([]any, len(schema.Columns))
	dest := make([]any, len(raw))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := record.NewRow(schema.ColumnNames()...)
	for i, def := range schema.Columns {
		v, err := decode(schema.Name, def, raw[i])
		if err != nil {
			// left as read so hydration rejects this record alone
			s.log.Debug("value kept undecoded", zap.String("table", schema.Name), zap.Error(err))
			v = undecoded(raw[i])
		}
		if err := row.Set(def.Name, v); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func undecoded(raw any) any {
	if b, ok := raw.([]byte); ok {
		return string(b)
	}
	return raw
}
