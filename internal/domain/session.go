package domain

import (
	"context"
	"fmt"
	"time"
)

// SessionType is the kind of timer run a session records.
type SessionType string

// Recognised session types.
const (
	SessionWork      SessionType = "work"
	SessionBreak     SessionType = "break"
	SessionLongBreak SessionType = "long-break"
)

// ParseSessionType validates s as a SessionType.
func ParseSessionType(s string) (SessionType, error) {
	switch t := SessionType(s); t {
	case SessionWork, SessionBreak, SessionLongBreak:
		return t, nil
	}
	return "", fmt.Errorf("%w: type must be one of %q, %q or %q", ErrValidation, SessionWork, SessionBreak, SessionLongBreak)
}

// SessionState is the lifecycle state derived from a session's fields.
type SessionState string

// Session lifecycle states. Completed and aborted are terminal.
const (
	StateActive    SessionState = "active"
	StateCompleted SessionState = "completed"
	StateAborted   SessionState = "aborted"
)

// Session is one timed run of work, break or long-break.
type Session struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"userId"`
	StartTime    time.Time   `json:"startTime"`
	EndTime      *time.Time  `json:"endTime"`
	Type         SessionType `json:"type"`
	Duration     *int        `json:"duration"`
	Completed    bool        `json:"completed"`
	Aborted      bool        `json:"aborted"`
	AbortReason  *string     `json:"abortReason"`
	SitesBlocked int         `json:"sitesBlocked"`
}

// IsTerminal reports whether the session has ended.
func (s *Session) IsTerminal() bool {
	return s.EndTime != nil
}

// State returns the lifecycle state of the session.
func (s *Session) State() SessionState {
	switch {
	case s.EndTime == nil:
		return StateActive
	case s.Aborted:
		return StateAborted
	default:
		return StateCompleted
	}
}

// SessionPatch lists the fields that may change after creation. Nil fields
// are left untouched.
type SessionPatch struct {
	EndTime      *time.Time `json:"endTime"`
	Duration     *int       `json:"duration"`
	Completed    *bool      `json:"completed"`
	Aborted      *bool      `json:"aborted"`
	AbortReason  *string    `json:"abortReason"`
	SitesBlocked *int       `json:"sitesBlocked"`
}

// Apply returns a copy of s with the patch merged in.
func (p SessionPatch) Apply(s Session) Session {
	if p.EndTime != nil {
		t := *p.EndTime
		s.EndTime = &t
	}
	if p.Duration != nil {
		d := *p.Duration
		s.Duration = &d
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
	if p.Aborted != nil {
		s.Aborted = *p.Aborted
	}
	if p.AbortReason != nil {
		r := *p.AbortReason
		s.AbortReason = &r
	}
	if p.SitesBlocked != nil {
		s.SitesBlocked = *p.SitesBlocked
	}
	return s
}

// NewSession holds the fields supplied at session creation.
type NewSession struct {
	UserID    int64
	Type      SessionType
	StartTime time.Time
	// Exclusive makes CreateSession fail with ErrConflict while the user
	// has an active session. The check and the insert are atomic.
	Exclusive bool
}

// SessionRepository is the port for session persistence.
//
// UpdateSession and IncrementSitesBlocked must only modify a session whose
// end time is still unset, and return ErrConflict otherwise. This makes the
// active to terminal transition happen at most once.
type SessionRepository interface {
	CreateSession(ctx context.Context, s NewSession) (*Session, error)
	GetSession(ctx context.Context, id int64) (*Session, error)
	UpdateSession(ctx context.Context, id int64, patch SessionPatch) (*Session, error)
	IncrementSitesBlocked(ctx context.Context, id int64) (*Session, error)
	ListSessions(ctx context.Context, userID int64, limit int) ([]Session, error)
}
