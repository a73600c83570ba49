package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	"github.com/pressly/goose/v3"

	"agenda/internal/database/migrations"
)

// New creates a new database connection pool. The pool is capped at ten
// open connections; callers queue for a free connection instead of failing
// when the pool is exhausted.
func New(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded goose migrations to set up the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
