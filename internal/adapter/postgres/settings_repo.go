package postgres

import (
	"context"
	"database/sql"
	"errors"

	"focusflow/internal/domain"
)

// GetTimerSettings returns a user's settings, or nil if none are stored.
func (d *DB) GetTimerSettings(ctx context.Context, userID int64) (*domain.TimerSettings, error) {
	t := domain.TimerSettings{UserID: userID}
	err := d.sql.QueryRowContext(ctx,
		`SELECT work_duration, break_duration, long_break_duration, sessions_before_long_break, sound_enabled, notifications_enabled
		FROM timer_settings WHERE user_id=$1;`, userID,
	).Scan(&t.WorkDuration, &t.BreakDuration, &t.LongBreakDuration, &t.SessionsBeforeLongBreak, &t.SoundEnabled, &t.NotificationsEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get timer settings", err)
	}
	return &t, nil
}

// UpsertTimerSettings stores a user's settings, replacing any previous ones.
func (d *DB) UpsertTimerSettings(ctx context.Context, t domain.TimerSettings) (*domain.TimerSettings, error) {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO timer_settings(user_id, work_duration, break_duration, long_break_duration, sessions_before_long_break, sound_enabled, notifications_enabled)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			work_duration = EXCLUDED.work_duration,
			break_duration = EXCLUDED.break_duration,
			long_break_duration = EXCLUDED.long_break_duration,
			sessions_before_long_break = EXCLUDED.sessions_before_long_break,
			sound_enabled = EXCLUDED.sound_enabled,
			notifications_enabled = EXCLUDED.notifications_enabled;`,
		t.UserID, t.WorkDuration, t.BreakDuration, t.LongBreakDuration, t.SessionsBeforeLongBreak, t.SoundEnabled, t.NotificationsEnabled,
	)
	if err != nil {
		return nil, wrapErr("upsert timer settings", err)
	}
	return &t, nil
}
