// Package database provides SQL persistence for save slots, on SQLite by
// default or PostgreSQL when configured.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database wraps the SQL connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the database named by cfg.Driver.
func OpenWithConfig(cfg Config) (*Database, error) {
	switch DialectType(cfg.Driver) {
	case DialectSQLite, "":
		return openSQLite(cfg.SQLitePath)
	case DialectPostgres:
		return openPostgres(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openSQLite(path string) (*Database, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dialect := NewDialect(DialectSQLite)
	db, err := sql.Open(dialect.DriverName(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps PRAGMAs in effect and serializes writers.
	db.SetMaxOpenConns(1)
	return setup(db, dialect)
}

func openPostgres(cfg PostgresConfig) (*Database, error) {
	dialect := NewDialect(DialectPostgres)
	db, err := sql.Open(dialect.DriverName(), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return setup(db, dialect)
}

func setup(db *sql.DB, dialect Dialect) (*Database, error) {
	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS save_slots (
			slot TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			checksum TEXT NOT NULL,
			updated_at %s NOT NULL
		)`, d.dialect.TimestampType()),
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// Dialect returns the SQL dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}
