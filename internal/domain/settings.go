package domain

import (
	"context"
	"fmt"
)

// TimerSettings holds a user's timer preferences. Durations are in minutes.
type TimerSettings struct {
	UserID                  int64 `json:"userId"`
	WorkDuration            int   `json:"workDuration"`
	BreakDuration           int   `json:"breakDuration"`
	LongBreakDuration       int   `json:"longBreakDuration"`
	SessionsBeforeLongBreak int   `json:"sessionsBeforeLongBreak"`
	SoundEnabled            bool  `json:"soundEnabled"`
	NotificationsEnabled    bool  `json:"notificationsEnabled"`
}

// DefaultTimerSettings returns the settings a user starts with.
func DefaultTimerSettings(userID int64) TimerSettings {
	return TimerSettings{
		UserID:                  userID,
		WorkDuration:            25,
		BreakDuration:           5,
		LongBreakDuration:       15,
		SessionsBeforeLongBreak: 4,
		SoundEnabled:            true,
		NotificationsEnabled:    true,
	}
}

// Validate checks every field is within its allowed range.
func (t TimerSettings) Validate() error {
	checks := []struct {
		name     string
		v        int
		min, max int
	}{
		{"workDuration", t.WorkDuration, 1, 60},
		{"breakDuration", t.BreakDuration, 1, 30},
		{"longBreakDuration", t.LongBreakDuration, 5, 60},
		{"sessionsBeforeLongBreak", t.SessionsBeforeLongBreak, 1, 10},
	}
	for _, c := range checks {
		if c.v < c.min || c.v > c.max {
			return fmt.Errorf("%w: %s must be within [%d, %d]", ErrValidation, c.name, c.min, c.max)
		}
	}
	return nil
}

// TimerSettingsPatch is a partial settings update. Nil fields are kept.
type TimerSettingsPatch struct {
	WorkDuration            *int  `json:"workDuration"`
	BreakDuration           *int  `json:"breakDuration"`
	LongBreakDuration       *int  `json:"longBreakDuration"`
	SessionsBeforeLongBreak *int  `json:"sessionsBeforeLongBreak"`
	SoundEnabled            *bool `json:"soundEnabled"`
	NotificationsEnabled    *bool `json:"notificationsEnabled"`
}

// Apply returns a copy of t with the patch merged in.
func (p TimerSettingsPatch) Apply(t TimerSettings) TimerSettings {
	if p.WorkDuration != nil {
		t.WorkDuration = *p.WorkDuration
	}
	if p.BreakDuration != nil {
		t.BreakDuration = *p.BreakDuration
	}
	if p.LongBreakDuration != nil {
		t.LongBreakDuration = *p.LongBreakDuration
	}
	if p.SessionsBeforeLongBreak != nil {
		t.SessionsBeforeLongBreak = *p.SessionsBeforeLongBreak
	}
	if p.SoundEnabled != nil {
		t.SoundEnabled = *p.SoundEnabled
	}
	if p.NotificationsEnabled != nil {
		t.NotificationsEnabled = *p.NotificationsEnabled
	}
	return t
}

// TimerSettingsRepository is the port for timer settings persistence.
// GetTimerSettings returns nil, nil when the user has no stored settings.
type TimerSettingsRepository interface {
	GetTimerSettings(ctx context.Context, userID int64) (*TimerSettings, error)
	UpsertTimerSettings(ctx context.Context, t TimerSettings) (*TimerSettings, error)
}
