package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	"github.com/nexaboard/nexaboard-go/internal/repository/migrations"
)

// NewDB creates a new MySQL database connection pool with the given DSN.
// The DSN must set parseTime=true.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		slog.Warn("database ping failed, continuing", "error", err)
	}

	return db, nil
}

func openMySQL(dsn string) (*Store, error) {
	db, err := NewDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("opening mysql: %w", err)
	}

	return &Store{
		Users:    NewMySQLUserRepository(db),
		Projects: NewMySQLProjectRepository(db),
		Tasks:    NewMySQLTaskRepository(db),
		Messages: NewMySQLMessageRepository(db),
		driver:   DriverMySQL,
		ping:     db.PingContext,
		migrate:  func(ctx context.Context) error { return RunMigrations(ctx, db) },
		close:    func(context.Context) error { return db.Close() },
	}, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
