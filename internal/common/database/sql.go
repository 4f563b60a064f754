// internal/common/database/sql.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"disc-workers/internal/common/config"
)

// SQLClient is the relational profile store, backed by either driver.
type SQLClient interface {
	GetDB() *sql.DB
	Driver() string
	Ping(ctx context.Context) error
	Close() error
}

// OpenSQL opens the store selected by cfg.Driver.
func OpenSQL(cfg config.DatabaseConfig) (SQLClient, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		return NewPostgres(cfg.Postgres)
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLite)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
