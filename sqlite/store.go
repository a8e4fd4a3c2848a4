// Package sqlite provides a concrete implementation of the persistence.FilterStore
// interface for SQLite databases. It handles creating the saved-filter table and
// reading and writing saved filters.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/asaidimu/go-sysparm/core/persistence"
	"go.uber.org/zap"
)

// dbRunner is an interface that abstracts the common methods of *sql.DB and *sql.Tx,
// allowing for the same code to be used for both transactional and non-transactional
// database operations.
type dbRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// FilterStore is a persistence.FilterStore backed by a SQLite table.
type FilterStore struct {
	db      dbRunner
	table   string
	logger  *zap.Logger
	options *StoreOptions
}

// Ensure FilterStore implements the persistence.FilterStore interface.
var _ persistence.FilterStore = (*FilterStore)(nil)

// NewFilterStore creates the saved-filter table if needed and returns a store
// using it. db may be a *sql.DB or a *sql.Tx.
func NewFilterStore(ctx context.Context, db dbRunner, logger *zap.Logger, options *StoreOptions) (*FilterStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options == nil {
		options = DefaultStoreOptions()
	}
	if options.TableName == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}

	for _, stmt := range createTableSQL(options) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to create table %s: %w", options.TableName, err)
		}
	}
	logger.Debug("Saved filter table ready", zap.String("table", options.TableName))

	return &FilterStore{
		db:      db,
		table:   quoteIdentifier(options.TableName),
		logger:  logger,
		options: options,
	}, nil
}

// TableName returns the unquoted name of the table holding saved filters.
func (s *FilterStore) TableName() string {
	return s.options.TableName
}

// Save inserts a filter, or replaces the table and query of the filter with
// the same name.
func (s *FilterStore) Save(ctx context.Context, filter persistence.SavedFilter) (persistence.SavedFilter, error) {
	stmt := fmt.Sprintf(`INSERT INTO %s ("id", "name", "table_name", "query", "created_at", "updated_at")
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT("name") DO UPDATE SET
  "table_name" = excluded."table_name",
  "query" = excluded."query",
  "updated_at" = excluded."updated_at";`, s.table)

	_, err := s.db.ExecContext(ctx, stmt,
		filter.ID,
		filter.Name,
		filter.Table,
		filter.Query,
		filter.CreatedAt.UnixMilli(),
		filter.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		s.logger.Error("Failed to save filter", zap.String("name", filter.Name), zap.Error(err))
		return persistence.SavedFilter{}, fmt.Errorf("failed to save filter %s: %w", filter.Name, err)
	}
	return s.Get(ctx, filter.Name)
}

// Get returns the filter with the given name.
func (s *FilterStore) Get(ctx context.Context, name string) (persistence.SavedFilter, error) {
	stmt := fmt.Sprintf(`SELECT "id", "name", "table_name", "query", "created_at", "updated_at" FROM %s WHERE "name" = ?;`, s.table)
	filter, err := scanFilter(s.db.QueryRowContext(ctx, stmt, name))
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.SavedFilter{}, fmt.Errorf("%w: %s", persistence.ErrFilterNotFound, name)
	}
	if err != nil {
		return persistence.SavedFilter{}, fmt.Errorf("failed to read filter %s: %w", name, err)
	}
	return filter, nil
}

// List returns filters ordered by name, restricted to table unless it is empty.
func (s *FilterStore) List(ctx context.Context, table string) ([]persistence.SavedFilter, error) {
	stmt := fmt.Sprintf(`SELECT "id", "name", "table_name", "query", "created_at", "updated_at" FROM %s`, s.table)
	var args []any
	if table != "" {
		stmt += ` WHERE "table_name" = ?`
		args = append(args, table)
	}
	stmt += ` ORDER BY "name";`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list filters: %w", err)
	}
	defer rows.Close()

	results := []persistence.SavedFilter{}
	for rows.Next() {
		filter, err := scanFilter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, filter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list filters: %w", err)
	}
	return results, nil
}

// Delete removes the filter with the given name.
func (s *FilterStore) Delete(ctx context.Context, name string) error {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE "name" = ?;`, s.table)
	result, err := s.db.ExecContext(ctx, stmt, name)
	if err != nil {
		return fmt.Errorf("failed to delete filter %s: %w", name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete filter %s: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", persistence.ErrFilterNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFilter(row scanner) (persistence.SavedFilter, error) {
	var (
		filter             persistence.SavedFilter
		createdAt, updated int64
	)
	if err := row.Scan(&filter.ID, &filter.Name, &filter.Table, &filter.Query, &createdAt, &updated); err != nil {
		return persistence.SavedFilter{}, err
	}
	filter.CreatedAt = time.UnixMilli(createdAt).UTC()
	filter.UpdatedAt = time.UnixMilli(updated).UTC()
	return filter, nil
}
