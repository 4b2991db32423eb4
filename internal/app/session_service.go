package app

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"focusflow/internal/domain"
)

const maxAbortReasonLen = 200

// Session lifecycle event names published to EventPublisher.
const (
	EventSessionCreated    = "session.created"
	EventSessionCompleted  = "session.completed"
	EventSessionAborted    = "session.aborted"
	EventSessionBlockedHit = "session.blocked_hit"
)

// SessionEvent notifies a user's clients that one of their sessions changed.
type SessionEvent struct {
	Event   string          `json:"event"`
	Session *domain.Session `json:"session"`
}

// EventPublisher delivers session events to the owning user's clients.
type EventPublisher interface {
	Publish(userID int64, ev SessionEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(int64, SessionEvent) {}

// SessionService owns the lifecycle of focus and break sessions.
type SessionService struct {
	repo         domain.SessionRepository
	events       EventPublisher
	now          func() time.Time
	singleActive bool
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithEventPublisher sets the publisher notified after each state change.
func WithEventPublisher(p EventPublisher) SessionOption {
	return func(s *SessionService) {
		if p != nil {
			s.events = p
		}
	}
}

// WithSingleActiveSession rejects Create while the user already has an
// active session.
func WithSingleActiveSession() SessionOption {
	return func(s *SessionService) { s.singleActive = true }
}

// WithSessionClock overrides the time source used for defaulted timestamps.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionService) { s.now = now }
}

// NewSessionService creates a SessionService backed by the given repository.
func NewSessionService(repo domain.SessionRepository, opts ...SessionOption) *SessionService {
	s := &SessionService{repo: repo, events: noopPublisher{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new active session of the given type for userID. A zero
// startTime means now.
func (s *SessionService) Create(ctx context.Context, userID int64, sessionType string, startTime time.Time) (*domain.Session, error) {
	t, err := domain.ParseSessionType(sessionType)
	if err != nil {
		return nil, err
	}
	if startTime.IsZero() {
		startTime = s.now()
	}

	created, err := s.repo.CreateSession(ctx, domain.NewSession{
		UserID:    userID,
		Type:      t,
		StartTime: startTime,
		Exclusive: s.singleActive,
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(userID, SessionEvent{Event: EventSessionCreated, Session: created})
	return created, nil
}

// Get returns a session owned by callerID.
func (s *SessionService) Get(ctx context.Context, sessionID, callerID int64) (*domain.Session, error) {
	return s.owned(ctx, sessionID, callerID)
}

// Terminate moves an active session owned by callerID to its completed or
// aborted state. A nil patch.EndTime defaults to now.
func (s *SessionService) Terminate(ctx context.Context, sessionID, callerID int64, patch domain.SessionPatch) (*domain.Session, error) {
	current, err := s.owned(ctx, sessionID, callerID)
	if err != nil {
		return nil, err
	}
	if current.IsTerminal() {
		return nil, fmt.Errorf("%w: session %d has already ended", domain.ErrConflict, sessionID)
	}

	if patch.EndTime == nil {
		now := s.now()
		patch.EndTime = &now
	}
	if patch.AbortReason != nil {
		reason := strings.TrimSpace(*patch.AbortReason)
		if reason == "" {
			patch.AbortReason = nil
		} else {
			patch.AbortReason = &reason
		}
	}

	if err := validateTermination(patch.Apply(*current)); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateSession(ctx, sessionID, patch)
	if err != nil {
		return nil, err
	}

	event := EventSessionCompleted
	if updated.Aborted {
		event = EventSessionAborted
	}
	s.events.Publish(callerID, SessionEvent{Event: event, Session: updated})
	return updated, nil
}

// RecordBlockedHit counts one blocked-site visit against an active session.
func (s *SessionService) RecordBlockedHit(ctx context.Context, sessionID, callerID int64) (*domain.Session, error) {
	current, err := s.owned(ctx, sessionID, callerID)
	if err != nil {
		return nil, err
	}
	if current.IsTerminal() {
		return nil, fmt.Errorf("%w: session %d has already ended", domain.ErrConflict, sessionID)
	}
	updated, err := s.repo.IncrementSitesBlocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(callerID, SessionEvent{Event: EventSessionBlockedHit, Session: updated})
	return updated, nil
}

// List returns userID's sessions, newest first. A limit <= 0 returns all.
func (s *SessionService) List(ctx context.Context, userID int64, limit int) ([]domain.Session, error) {
	if limit < 0 {
		limit = 0
	}
	return s.repo.ListSessions(ctx, userID, limit)
}

func (s *SessionService) owned(ctx context.Context, sessionID, callerID int64) (*domain.Session, error) {
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: session %d", domain.ErrNotFound, sessionID)
	}
	if sess.UserID != callerID {
		return nil, fmt.Errorf("%w: session %d belongs to another user", domain.ErrForbidden, sessionID)
	}
	return sess, nil
}

func validateTermination(s domain.Session) error {
	switch {
	case s.Completed && s.Aborted:
		return fmt.Errorf("%w: a session cannot be both completed and aborted", domain.ErrConflict)
	case !s.Completed && !s.Aborted:
		return fmt.Errorf("%w: terminating a session requires completed or aborted", domain.ErrValidation)
	case s.Duration != nil && *s.Duration < 0:
		return fmt.Errorf("%w: duration must be >= 0", domain.ErrValidation)
	case s.EndTime.Before(s.StartTime):
		return fmt.Errorf("%w: endTime is before startTime", domain.ErrValidation)
	case s.AbortReason != nil && !s.Aborted:
		return fmt.Errorf("%w: abortReason is only allowed on aborted sessions", domain.ErrValidation)
	case s.AbortReason != nil && utf8.RuneCountInString(*s.AbortReason) > maxAbortReasonLen:
		return fmt.Errorf("%w: abortReason is longer than %d characters", domain.ErrValidation, maxAbortReasonLen)
	case s.SitesBlocked < 0:
		return fmt.Errorf("%w: sitesBlocked must be >= 0", domain.ErrValidation)
	}
	return nil
}
