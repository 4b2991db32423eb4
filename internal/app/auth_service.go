// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"focusflow/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// DefaultLoginTTL is how long a login session stays valid.
const DefaultLoginTTL = 24 * time.Hour

const minPasswordLen = 6

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the requested login session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the login session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// AuthService handles registration, authentication and login sessions.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.LoginSessionRepository
	ttl      time.Duration
}

// NewAuthService creates a new authentication service. A ttl <= 0 uses
// DefaultLoginTTL.
func NewAuthService(users domain.UserRepository, sessions domain.LoginSessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultLoginTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
	}
}

// TTL returns the lifetime of new login sessions.
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

// Register creates a password user.
func (s *AuthService) Register(ctx context.Context, username, email, name, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: email is invalid", domain.ErrValidation)
		}
	}
	if name == "" {
		name = username
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	if u, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if u != nil {
		return nil, fmt.Errorf("%w: username already taken", domain.ErrConflict)
	}
	if email != "" {
		if u, err := s.users.GetByEmail(ctx, email); err != nil {
			return nil, err
		} else if u != nil {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, domain.NewUser{
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	})
}

// Login authenticates a user and creates a session.
func (s *AuthService) Login(ctx context.Context, username, password, userAgent, ip string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil || user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.newSession(ctx, user.ID, userAgent, ip)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	if !ConstantTimeCompare(session.UserAgent, userAgent) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// ValidateForwardAuth validates a request from a forward-auth proxy.
// It checks for the Remote-User header set by the proxy.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, remoteUser string) (*domain.User, error) {
	if remoteUser == "" {
		return nil, errors.New("no remote user header")
	}
	return s.provision(ctx, remoteUser, "")
}

// LoginWithUser creates a session for an already authenticated user (e.g. via SSO).
func (s *AuthService) LoginWithUser(ctx context.Context, username, email, userAgent, ip string) (string, error) {
	user, err := s.provision(ctx, username, email)
	if err != nil {
		return "", err
	}
	return s.newSession(ctx, user.ID, userAgent, ip)
}

// PurgeExpired deletes expired login sessions and reports how many went.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

// provision returns the named user, creating a password-less account for
// externally authenticated users on first sight.
func (s *AuthService) provision(ctx context.Context, username, email string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.Create(ctx, domain.NewUser{Username: username, Email: email, Name: username})
	if err != nil {
		// Try getting again if creation failed due to race (e.g. unique constraint)
		user, err = s.users.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
	}
	return user, nil
}

func (s *AuthService) newSession(ctx context.Context, userID int64, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.ttl)
	if err := s.sessions.Create(ctx, userID, token, userAgent, ip, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
