package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"focusflow/internal/domain"
)

const sessionColumns = "id, user_id, start_time, end_time, type, duration, completed, aborted, abort_reason, sites_blocked"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s        domain.Session
		typ      string
		endTime  sql.NullTime
		duration sql.NullInt64
		reason   sql.NullString
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.StartTime, &endTime, &typ, &duration, &s.Completed, &s.Aborted, &reason, &s.SitesBlocked); err != nil {
		return nil, err
	}
	s.Type = domain.SessionType(typ)
	if endTime.Valid {
		t := endTime.Time
		s.EndTime = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		s.Duration = &d
	}
	if reason.Valid {
		r := reason.String
		s.AbortReason = &r
	}
	return &s, nil
}

// CreateSession inserts a new active session. Exclusive inserts take a
// per-user advisory lock for the transaction so concurrent creates for the
// same user serialize on the active-session check.
func (d *DB) CreateSession(ctx context.Context, s domain.NewSession) (*domain.Session, error) {
	if !s.Exclusive {
		row := d.sql.QueryRowContext(ctx,
			"INSERT INTO sessions(user_id, start_time, type) VALUES($1, $2, $3) RETURNING "+sessionColumns+";",
			s.UserID, s.StartTime.UTC(), string(s.Type),
		)
		out, err := scanSession(row)
		if err != nil {
			return nil, wrapErr("create session", err)
		}
		return out, nil
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr("create session", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1);", s.UserID); err != nil {
		return nil, wrapErr("create session", err)
	}
	var activeID int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM sessions WHERE user_id=$1 AND end_time IS NULL LIMIT 1;", s.UserID,
	).Scan(&activeID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: session %d is still active", domain.ErrConflict, activeID)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, wrapErr("create session", err)
	}

	out, err := scanSession(tx.QueryRowContext(ctx,
		"INSERT INTO sessions(user_id, start_time, type) VALUES($1, $2, $3) RETURNING "+sessionColumns+";",
		s.UserID, s.StartTime.UTC(), string(s.Type),
	))
	if err != nil {
		return nil, wrapErr("create session", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, wrapErr("create session", err)
	}
	return out, nil
}

// GetSession returns a session by ID, or nil if it does not exist.
func (d *DB) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id=$1;", id)
	out, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get session", err)
	}
	return out, nil
}

// UpdateSession applies patch to a session that has not ended yet. The
// end_time guard makes concurrent terminations race on one row; losers get
// ErrConflict.
func (d *DB) UpdateSession(ctx context.Context, id int64, p domain.SessionPatch) (*domain.Session, error) {
	var endTime sql.NullTime
	if p.EndTime != nil {
		endTime = sql.NullTime{Time: p.EndTime.UTC(), Valid: true}
	}
	var completed, aborted sql.NullBool
	if p.Completed != nil {
		completed = sql.NullBool{Bool: *p.Completed, Valid: true}
	}
	if p.Aborted != nil {
		aborted = sql.NullBool{Bool: *p.Aborted, Valid: true}
	}
	var reason sql.NullString
	if p.AbortReason != nil {
		reason = sql.NullString{String: *p.AbortReason, Valid: true}
	}

	row := d.sql.QueryRowContext(ctx, `UPDATE sessions SET
		end_time = COALESCE($2, end_time),
		duration = COALESCE($3, duration),
		completed = COALESCE($4, completed),
		aborted = COALESCE($5, aborted),
		abort_reason = COALESCE($6, abort_reason),
		sites_blocked = COALESCE($7, sites_blocked)
		WHERE id=$1 AND end_time IS NULL
		RETURNING `+sessionColumns+";",
		id, endTime, nullInt(p.Duration), completed, aborted, reason, nullInt(p.SitesBlocked),
	)
	out, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, d.missingOrEnded(ctx, id)
	}
	if err != nil {
		return nil, wrapErr("update session", err)
	}
	return out, nil
}

// IncrementSitesBlocked bumps the blocked-site counter of an active session.
func (d *DB) IncrementSitesBlocked(ctx context.Context, id int64) (*domain.Session, error) {
	row := d.sql.QueryRowContext(ctx,
		"UPDATE sessions SET sites_blocked = sites_blocked + 1 WHERE id=$1 AND end_time IS NULL RETURNING "+sessionColumns+";", id)
	out, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, d.missingOrEnded(ctx, id)
	}
	if err != nil {
		return nil, wrapErr("increment sites blocked", err)
	}
	return out, nil
}

// ListSessions returns a user's sessions, newest first. A limit <= 0 returns all.
func (d *DB) ListSessions(ctx context.Context, userID int64, limit int) ([]domain.Session, error) {
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE user_id=$1 ORDER BY start_time DESC, id DESC LIMIT $2;", userID, lim)
	if err != nil {
		return nil, wrapErr("list sessions", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, wrapErr("list sessions", err)
		}
		out = append(out, *s)
	}
	return out, wrapErr("list sessions", rows.Err())
}

func (d *DB) missingOrEnded(ctx context.Context, id int64) error {
	s, err := d.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: session %d", domain.ErrNotFound, id)
	}
	return fmt.Errorf("%w: session %d has already ended", domain.ErrConflict, id)
}
