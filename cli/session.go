package cli

import (
	"context"
	"database/sql"

	"github.com/asaidimu/go-sysparm/core/persistence"
	"github.com/asaidimu/go-sysparm/sqlite"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
)

// session holds the resources a saved-filter command works with.
type session struct {
	db      *sql.DB
	filters *persistence.Filters
	logger  *zap.Logger
}

// openSession opens the database named by the root options and prepares the
// saved-filter service on top of it.
func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	logger, err := opts.newLogger()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create logger", err)
	}

	logger.Debug("Opening database", zap.String("path", opts.Database))
	db, err := sql.Open("sqlite3", opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	db.SetMaxOpenConns(1)

	store, err := sqlite.NewFilterStore(ctx, db, logger, nil)
	if err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "failed to prepare database", err)
	}

	filters, err := persistence.NewFilters(store, logger)
	if err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "failed to initialize saved filters", err)
	}

	return &session{db: db, filters: filters, logger: logger}, nil
}

// Close releases the database connection.
func (s *session) Close() error {
	_ = s.logger.Sync()
	return s.db.Close()
}
