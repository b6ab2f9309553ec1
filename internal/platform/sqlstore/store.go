package sqlstore

import (
	"context"
	"fmt"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
	qb "github.com/riskibarqy/lol-dataset/internal/platform/querybuilder"
)

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store is a relational table store over sqlx. Tables are created lazily from the
// shape of the first written row; writes run row by row and never abort on a single
// failing row.
type Store struct {
	db       *sqlx.DB
	dialect  qb.Dialect
	logger   *logging.Logger
	readOnly bool

	mu    sync.Mutex
	known map[string]bool
}

// WriteResult reports per-row outcomes of Insert and Update.
type WriteResult struct {
	Affected int
	Skipped  int
	Failed   int
	// Failures combines every row error, marked with ErrStoreWrite. Nil when Failed is zero.
	Failures error
}

func New(db *sqlx.DB, dialect qb.Dialect, logger *logging.Logger) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		logger:  logging.OrNop(logger),
		known:   make(map[string]bool),
	}
}

// ReadOnly returns a view sharing the connection pool that refuses schema changes and writes.
func (s *Store) ReadOnly() *Store {
	return &Store{
		db:       s.db,
		dialect:  s.dialect,
		logger:   s.logger,
		readOnly: true,
		known:    make(map[string]bool),
	}
}

func (s *Store) Dialect() qb.Dialect {
	return s.dialect
}

func (s *Store) Close() error {
	if s.readOnly {
		return nil
	}
	return s.db.Close()
}

func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	s.mu.Lock()
	known := s.known[table]
	s.mu.Unlock()
	if known {
		return true, nil
	}

	query, args, err := qb.TableExists(s.dialect, table)
	if err != nil {
		return false, fmt.Errorf("build table exists query: %w", err)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, s.db.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("check table %s exists: %w", table, err)
	}
	if count > 0 {
		s.markKnown(table, true)
	}
	return count > 0, nil
}

func (s *Store) CreateTable(ctx context.Context, table string, columns []qb.ColumnDef, primaryKey ...string) error {
	if s.readOnly {
		s.logger.WarnContext(ctx, "refusing to create table", "table", table, "error", ErrSchemaMismatch)
		return nil
	}

	query, err := qb.CreateTable(s.dialect, table, columns, primaryKey...)
	if err != nil {
		return fmt.Errorf("build create table %s: %w", table, err)
	}
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	s.markKnown(table, true)
	s.logger.InfoContext(ctx, "table created", "table", table, "columns", len(columns), "primary_key", primaryKey)
	return nil
}

func (s *Store) DropTable(ctx context.Context, table string) error {
	if s.readOnly {
		return crerr.Wrapf(ErrReadOnly, "drop table %s", table)
	}

	query, err := qb.DropTable(table)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("drop table %s: %w", table, err)
	}

	s.markKnown(table, false)
	return nil
}

// Select scans the rows produced by b into dest (a pointer to a slice).
func (s *Store) Select(ctx context.Context, dest any, b *qb.SelectBuilder) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("build select query: %w", err)
	}
	if err := s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	return nil
}

// Insert writes rows one by one into table, creating it from the first row when absent.
// With a primary key, conflicting rows are skipped so repeated inserts are idempotent.
func Insert[T any](ctx context.Context, s *Store, table string, rows []T, primaryKey ...string) (WriteResult, error) {
	if len(rows) == 0 {
		return WriteResult{}, nil
	}
	if s.readOnly {
		return WriteResult{}, crerr.Wrapf(ErrReadOnly, "insert into %s", table)
	}
	if err := s.ensureTable(ctx, table, rows[0], primaryKey); err != nil {
		return WriteResult{}, err
	}

	var result WriteResult
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		query, args, err := qb.InsertModel(table, row, primaryKey...)
		if err != nil {
			return result, fmt.Errorf("build insert into %s: %w", table, err)
		}
		res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
		if err != nil {
			s.recordFailure(ctx, &result, "insert", table, i, err)
			continue
		}
		result.record(res.RowsAffected())
	}
	return result, nil
}

// Update applies each row as a conditional UPDATE keyed by matchColumns. Rows that match
// nothing are counted as skipped; no row is ever inserted.
func Update[T any](ctx context.Context, s *Store, table string, rows []T, matchColumns []string, extra ...qb.Condition) (WriteResult, error) {
	if len(rows) == 0 {
		return WriteResult{}, nil
	}
	if s.readOnly {
		return WriteResult{}, crerr.Wrapf(ErrReadOnly, "update %s", table)
	}

	var result WriteResult
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		query, args, err := qb.UpdateModel(table, row, matchColumns, extra...)
		if err != nil {
			return result, fmt.Errorf("build update %s: %w", table, err)
		}
		res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
		if err != nil {
			s.recordFailure(ctx, &result, "update", table, i, err)
			continue
		}
		result.record(res.RowsAffected())
	}
	return result, nil
}

func (s *Store) ensureTable(ctx context.Context, table string, sample any, primaryKey []string) error {
	exists, err := s.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	columns, err := qb.ColumnsFromModel(sample)
	if err != nil {
		return fmt.Errorf("derive columns for %s: %w", table, err)
	}
	return s.CreateTable(ctx, table, columns, primaryKey...)
}

func (s *Store) recordFailure(ctx context.Context, result *WriteResult, op, table string, row int, err error) {
	result.Failed++
	rowErr := crerr.Mark(crerr.Wrapf(err, "%s %s row %d", op, table, row), ErrStoreWrite)
	result.Failures = crerr.CombineErrors(result.Failures, rowErr)
	s.logger.WarnContext(ctx, "row write failed", "op", op, "table", table, "row", row, "error", err)
}

func (s *Store) markKnown(table string, exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exists {
		s.known[table] = true
		return
	}
	delete(s.known, table)
}

func (r *WriteResult) record(affected int64, err error) {
	if err != nil || affected > 0 {
		r.Affected++
		return
	}
	r.Skipped++
}
