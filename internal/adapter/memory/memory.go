// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"focusflow/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu        sync.Mutex
	sessions  map[int64]*domain.Session
	settings  map[int64]domain.TimerSettings
	blocked   []domain.BlockedSite
	users     []*domain.User
	logins    map[string]*domain.LoginSession
	sessionID int64
	blockedID int64
	userID    int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[int64]*domain.Session),
		settings: make(map[int64]domain.TimerSettings),
		logins:   make(map[string]*domain.LoginSession),
	}
}

// Ensure interfaces are met.
var _ domain.SessionRepository = (*DB)(nil)
var _ domain.TimerSettingsRepository = (*DB)(nil)
var _ domain.BlocklistRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.LoginSessionRepository = (*LoginSessionRepo)(nil)

// --- SessionRepository ---

// CreateSession stores a new active session.
func (db *DB) CreateSession(ctx context.Context, s domain.NewSession) (*domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if s.Exclusive {
		for _, existing := range db.sessions {
			if existing.UserID == s.UserID && existing.EndTime == nil {
				return nil, fmt.Errorf("%w: session %d is still active", domain.ErrConflict, existing.ID)
			}
		}
	}

	db.sessionID++
	sess := &domain.Session{
		ID:        db.sessionID,
		UserID:    s.UserID,
		StartTime: s.StartTime.UTC(),
		Type:      s.Type,
	}
	db.sessions[sess.ID] = sess
	return copySession(sess), nil
}

// GetSession returns the session with the given ID, or nil if absent.
func (db *DB) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if s, ok := db.sessions[id]; ok {
		return copySession(s), nil
	}
	return nil, nil
}

// UpdateSession applies patch to an active session. The check and the write
// happen under one lock, so a session ends at most once.
func (db *DB) UpdateSession(ctx context.Context, id int64, patch domain.SessionPatch) (*domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	s, err := db.activeSession(id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*s)
	db.sessions[id] = &updated
	return copySession(&updated), nil
}

// IncrementSitesBlocked bumps the blocked-site counter of an active session.
func (db *DB) IncrementSitesBlocked(ctx context.Context, id int64) (*domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	s, err := db.activeSession(id)
	if err != nil {
		return nil, err
	}
	s.SitesBlocked++
	return copySession(s), nil
}

// ListSessions returns a user's sessions, newest first. A limit <= 0 returns all.
func (db *DB) ListSessions(ctx context.Context, userID int64, limit int) ([]domain.Session, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Session, 0)
	for _, s := range db.sessions {
		if s.UserID == userID {
			result = append(result, *copySession(s))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].ID > result[j].ID
		}
		return result[i].StartTime.After(result[j].StartTime)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (db *DB) activeSession(id int64) (*domain.Session, error) {
	s, ok := db.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %d", domain.ErrNotFound, id)
	}
	if s.EndTime != nil {
		return nil, fmt.Errorf("%w: session %d has already ended", domain.ErrConflict, id)
	}
	return s, nil
}

func copySession(s *domain.Session) *domain.Session {
	c := *s
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	if s.Duration != nil {
		d := *s.Duration
		c.Duration = &d
	}
	if s.AbortReason != nil {
		r := *s.AbortReason
		c.AbortReason = &r
	}
	return &c
}

// --- TimerSettingsRepository ---

// GetTimerSettings returns a user's settings, or nil if none are stored.
func (db *DB) GetTimerSettings(ctx context.Context, userID int64) (*domain.TimerSettings, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if t, ok := db.settings[userID]; ok {
		return &t, nil
	}
	return nil, nil
}

// UpsertTimerSettings stores a user's settings, replacing any previous ones.
func (db *DB) UpsertTimerSettings(ctx context.Context, t domain.TimerSettings) (*domain.TimerSettings, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.settings[t.UserID] = t
	return &t, nil
}

// --- BlocklistRepository ---

// ListBlockedSites returns a user's blocked sites in insertion order.
func (db *DB) ListBlockedSites(ctx context.Context, userID int64) ([]domain.BlockedSite, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.BlockedSite, 0)
	for _, b := range db.blocked {
		if b.UserID == userID {
			result = append(result, b)
		}
	}
	return result, nil
}

// AddBlockedSite stores a blocked domain for a user.
func (db *DB) AddBlockedSite(ctx context.Context, userID int64, d string) (*domain.BlockedSite, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, b := range db.blocked {
		if b.UserID == userID && b.Domain == d {
			return nil, fmt.Errorf("%w: %s is already in the blocklist", domain.ErrConflict, d)
		}
	}

	db.blockedID++
	site := domain.BlockedSite{ID: db.blockedID, UserID: userID, Domain: d}
	db.blocked = append(db.blocked, site)
	return &site, nil
}

// RemoveBlockedSite deletes a blocked site owned by userID.
func (db *DB) RemoveBlockedSite(ctx context.Context, userID, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, b := range db.blocked {
		if b.ID == id && b.UserID == userID {
			db.blocked = append(db.blocked[:i], db.blocked[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	// Return nil if not found
	return nil, nil
}

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if email == "" {
		return nil, nil
	}
	for _, u := range db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user. Usernames and non-empty emails are unique.
func (db *DB) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == nu.Username || (nu.Email != "" && u.Email == nu.Email) {
			return nil, fmt.Errorf("%w: user already exists", domain.ErrConflict)
		}
	}

	db.userID++
	u := &domain.User{
		ID:           db.userID,
		Username:     nu.Username,
		Email:        nu.Email,
		Name:         nu.Name,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// --- LoginSessionRepository ---

// LoginSessionRepo implements login session persistence.
type LoginSessionRepo struct {
	db *DB
}

// NewLoginSessionRepo creates a new login session repository.
func (db *DB) NewLoginSessionRepo() *LoginSessionRepo {
	return &LoginSessionRepo{db: db}
}

// Create creates a new login session.
func (r *LoginSessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.logins[token] = &domain.LoginSession{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a login session by token.
func (r *LoginSessionRepo) GetByToken(ctx context.Context, token string) (*domain.LoginSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.logins[token]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

// Delete deletes a login session.
func (r *LoginSessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.logins, token)
	return nil
}

// DeleteExpired deletes all expired login sessions.
func (r *LoginSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	var n int64
	for k, v := range r.db.logins {
		if now.After(v.ExpiresAt) {
			delete(r.db.logins, k)
			n++
		}
	}
	return n, nil
}
