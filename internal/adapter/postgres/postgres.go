// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"focusflow/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Ensure interfaces are met.
var _ domain.SessionRepository = (*DB)(nil)
var _ domain.TimerSettingsRepository = (*DB)(nil)
var _ domain.BlocklistRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.LoginSessionRepository = (*LoginSessionRepo)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(ctx context.Context, connStr string, logger *log.Logger) (*DB, error) {
	if logger == nil {
		logger = log.Default()
	}

	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.PingContext(pingCtx); err != nil {
		_ = s.Close()
		return nil, domain.StorageError("ping", err)
	}

	if err := migrate(ctx, s, logger); err != nil {
		_ = s.Close()
		return nil, err
	}
	return &DB{sql: s}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func migrate(ctx context.Context, s *sql.DB, logger *log.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(logger.WithPrefix("goose"))
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := goose.UpContext(ctx, s, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// wrapErr turns driver errors into domain errors. Unique violations become
// ErrConflict, everything else ErrStorage.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s: %s", domain.ErrConflict, op, pqErr.Message)
	}
	return domain.StorageError(op, err)
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
