// Package storage opens the vault database, applies the embedded goose
// migrations and hands out repositories bound either to the pool or to a
// single transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/passkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/passkeeper/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/passkeeper/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Repositories groups the repositories used by the services.
type Repositories struct {
	Accounts    accounts.Repository
	Credentials credentials.Repository
}

// Store owns the database handle. The embedded Repositories work outside
// of any transaction.
type Store struct {
	Repositories

	db     *sql.DB
	driver string
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for driver.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	var dialect, dir string
	switch driver {
	case DriverSQLite:
		dialect, dir = "sqlite3", migrations.SQLiteDir
	case DriverPostgres:
		dialect, dir = "pgx", migrations.PostgresDir
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Open connects to the database and brings its schema up to date.
//
// SQLite is limited to a single connection: the file is used by one
// process and serialized writes keep "database is locked" away.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var sqlDriver string
	switch driver {
	case DriverSQLite:
		sqlDriver = "sqlite"
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := RunMigrations(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, driver: driver}
	s.Repositories = s.bind(db)
	return s, nil
}

func (s *Store) bind(db dbx.DBTX) Repositories {
	if s.driver == DriverPostgres {
		return Repositories{
			Accounts:    accounts.NewPostgresRepository(db),
			Credentials: credentials.NewPostgresRepository(db),
		}
	}
	return Repositories{
		Accounts:    accounts.NewSQLiteRepository(db),
		Credentials: credentials.NewSQLiteRepository(db),
	}
}

// WithTx runs fn with repositories bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
//
// fn must only use the repositories it receives: with SQLite the
// transaction holds the single connection.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.bind(tx))
	})
}

func (s *Store) Driver() string {
	return s.driver
}

// DB exposes the underlying handle, mostly for tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}
