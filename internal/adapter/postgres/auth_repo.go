package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"focusflow/internal/domain"
)

const userColumns = "id, username, COALESCE(email, ''), name, password_hash, created_at"

func (d *DB) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+where+" = $1", arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get user", err)
	}
	return &u, nil
}

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.getUser(ctx, "username", username)
}

// GetByEmail retrieves a user by email.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, nil
	}
	return d.getUser(ctx, "email", email)
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return d.getUser(ctx, "id", id)
}

// Create creates a new user. An empty email is stored as NULL so that
// externally provisioned accounts do not collide on it.
func (d *DB) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO users (username, email, name, password_hash, created_at) VALUES ($1, NULLIF($2, ''), $3, $4, $5) RETURNING "+userColumns,
		nu.Username, nu.Email, nu.Name, nu.PasswordHash, time.Now(),
	).Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, wrapErr("create user", err)
	}
	return &u, nil
}

// LoginSessionRepo implements login session persistence on DB.
type LoginSessionRepo struct {
	db *DB
}

// NewLoginSessionRepo wraps a DB as a LoginSessionRepository.
func NewLoginSessionRepo(db *DB) *LoginSessionRepo {
	return &LoginSessionRepo{db: db}
}

// Create creates a new login session.
func (r *LoginSessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO login_sessions (user_id, token, user_agent, ip, expires_at, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		userID, token, userAgent, ip, expiresAt, time.Now(),
	)
	return wrapErr("create login session", err)
}

// GetByToken retrieves a login session by token.
func (r *LoginSessionRepo) GetByToken(ctx context.Context, token string) (*domain.LoginSession, error) {
	var s domain.LoginSession
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT token, user_id, user_agent, ip, expires_at, created_at FROM login_sessions WHERE token = $1",
		token,
	).Scan(&s.Token, &s.UserID, &s.UserAgent, &s.IP, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get login session", err)
	}
	return &s, nil
}

// Delete deletes a login session by token.
func (r *LoginSessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM login_sessions WHERE token = $1", token)
	return wrapErr("delete login session", err)
}

// DeleteExpired deletes all expired login sessions.
func (r *LoginSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.sql.ExecContext(ctx, "DELETE FROM login_sessions WHERE expires_at < $1", time.Now())
	if err != nil {
		return 0, wrapErr("delete expired login sessions", err)
	}
	n, err := res.RowsAffected()
	return n, wrapErr("delete expired login sessions", err)
}
