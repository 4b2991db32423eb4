package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"focusflow/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, u domain.NewUser) (*domain.User, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.NewUser) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return &domain.User{ID: 1, Username: u.Username, Email: u.Email, Name: u.Name, PasswordHash: u.PasswordHash}, nil
}

type mockLoginSessionRepo struct {
	createFn        func(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.LoginSession, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) (int64, error)
}

func (m *mockLoginSessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, userAgent, ip, expiresAt)
	}
	return nil
}

func (m *mockLoginSessionRepo) GetByToken(ctx context.Context, token string) (*domain.LoginSession, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockLoginSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockLoginSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	password := "testpass123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:           1,
				Username:     "testuser",
				PasswordHash: string(hash),
			}, nil
		},
	}

	sessions := &mockLoginSessionRepo{
		createFn: func(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
			if userID != 1 {
				t.Errorf("expected userID 1, got %d", userID)
			}
			if token == "" {
				t.Error("token should not be empty")
			}
			if userAgent != "agent/1.0" {
				t.Errorf("expected user agent to be recorded, got %q", userAgent)
			}
			return nil
		},
	}

	svc := NewAuthService(users, sessions, 0)
	token, err := svc.Login(ctx, "testuser", password, "agent/1.0", "127.0.0.1")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token, got empty string")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.MinCost)

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:           1,
				Username:     "testuser",
				PasswordHash: string(hash),
			}, nil
		},
	}

	svc := NewAuthService(users, &mockLoginSessionRepo{}, 0)

	_, err := svc.Login(ctx, "testuser", "wrongpass", "", "")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockLoginSessionRepo{}, 0)
	_, err := svc.Login(context.Background(), "ghost", "whatever", "", "")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ValidateSession_Valid(t *testing.T) {
	ctx := context.Background()
	token := "validtoken"

	sessions := &mockLoginSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.LoginSession, error) {
			return &domain.LoginSession{
				Token:     token,
				UserID:    1,
				UserAgent: "agent/1.0",
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}, nil
		},
	}

	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{
				ID:       1,
				Username: "testuser",
			}, nil
		},
	}

	svc := NewAuthService(users, sessions, 0)
	user, err := svc.ValidateSession(ctx, token, "agent/1.0")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %s", user.Username)
	}
}

func TestAuthService_ValidateSession_Missing(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockLoginSessionRepo{}, 0)
	_, err := svc.ValidateSession(context.Background(), "nope", "")
	if err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_ValidateSession_Expired(t *testing.T) {
	ctx := context.Background()
	token := "expiredtoken"

	deleted := false
	sessions := &mockLoginSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.LoginSession, error) {
			return &domain.LoginSession{
				Token:     token,
				UserID:    1,
				ExpiresAt: time.Now().Add(-1 * time.Hour),
			}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}

	svc := NewAuthService(&mockUserRepo{}, sessions, 0)

	_, err := svc.ValidateSession(ctx, token, "")
	if err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected session to be deleted")
	}
}

func TestAuthService_ValidateSession_UserAgentMismatch(t *testing.T) {
	deleted := false
	sessions := &mockLoginSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.LoginSession, error) {
			return &domain.LoginSession{Token: tok, UserID: 1, UserAgent: "firefox", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}

	svc := NewAuthService(&mockUserRepo{}, sessions, 0)
	_, err := svc.ValidateSession(context.Background(), "tok", "curl")
	if err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected hijacked session to be deleted")
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		createFn: func(ctx context.Context, u domain.NewUser) (*domain.User, error) {
			if u.Username != "ada" {
				t.Errorf("expected username 'ada', got %s", u.Username)
			}
			if u.PasswordHash == "" || u.PasswordHash == "password123" {
				t.Error("password must be stored hashed")
			}
			if u.Name != "Ada Lovelace" {
				t.Errorf("expected name to be kept, got %q", u.Name)
			}
			return &domain.User{ID: 1, Username: u.Username, Email: u.Email, Name: u.Name}, nil
		},
	}

	svc := NewAuthService(users, &mockLoginSessionRepo{}, 0)

	user, err := svc.Register(ctx, "ada", "ada@example.com", "Ada Lovelace", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != 1 {
		t.Errorf("expected user id 1, got %d", user.ID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockLoginSessionRepo{}, 0)

	tests := []struct {
		name                      string
		username, email, password string
	}{
		{"missing username", "", "a@example.com", "password123"},
		{"bad email", "ada", "not-an-email", "password123"},
		{"short password", "ada", "a@example.com", "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.email, "", tc.password)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_WithoutEmail(t *testing.T) {
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			t.Fatalf("GetByEmail called for an empty email")
			return nil, nil
		},
	}
	svc := NewAuthService(users, &mockLoginSessionRepo{}, 0)

	user, err := svc.Register(context.Background(), "ada", "  ", "", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "" || user.Name != "ada" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	users := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: 9, Email: email}, nil
		},
	}
	svc := NewAuthService(users, &mockLoginSessionRepo{}, 0)

	_, err := svc.Register(context.Background(), "ada", "ada@example.com", "", "password123")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthService_ValidateForwardAuth_ExistingUser(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:       1,
				Username: "ssouser",
			}, nil
		},
		createFn: func(ctx context.Context, u domain.NewUser) (*domain.User, error) {
			t.Error("existing user must not be re-created")
			return nil, errors.New("unexpected create")
		},
	}

	svc := NewAuthService(users, &mockLoginSessionRepo{}, 0)

	user, err := svc.ValidateForwardAuth(ctx, "ssouser")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "ssouser" {
		t.Errorf("expected username 'ssouser', got %s", user.Username)
	}
}

func TestAuthService_ValidateForwardAuth_NewUser(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		createFn: func(ctx context.Context, u domain.NewUser) (*domain.User, error) {
			return &domain.User{
				ID:       2,
				Username: u.Username,
			}, nil
		},
	}

	svc := NewAuthService(users, &mockLoginSessionRepo{}, 0)

	user, err := svc.ValidateForwardAuth(ctx, "newssouser")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "newssouser" {
		t.Errorf("expected username 'newssouser', got %s", user.Username)
	}
}

func TestAuthService_ValidateForwardAuth_EmptyHeader(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockLoginSessionRepo{}, 0)
	if _, err := svc.ValidateForwardAuth(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty remote user")
	}
}

func TestAuthService_LoginWithUser_UsesTTL(t *testing.T) {
	var gotExpiry time.Time
	sessions := &mockLoginSessionRepo{
		createFn: func(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
			gotExpiry = expiresAt
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, 2*time.Hour)

	before := time.Now()
	token, err := svc.LoginWithUser(context.Background(), "sso@example.com", "sso@example.com", "agent", "ip")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}
	if gotExpiry.Before(before.Add(2*time.Hour)) || gotExpiry.After(time.Now().Add(2*time.Hour)) {
		t.Errorf("expected expiry ~2h from now, got %v", gotExpiry)
	}
}

func TestAuthService_PurgeExpired(t *testing.T) {
	sessions := &mockLoginSessionRepo{
		deleteExpiredFn: func(ctx context.Context) (int64, error) { return 3, nil },
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, 0)
	n, err := svc.PurgeExpired(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("expected 3 purged, got %d (err %v)", n, err)
	}
}
