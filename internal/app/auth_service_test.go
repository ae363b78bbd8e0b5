package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"healthvault/internal/app"
	"healthvault/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	byNameFn func(ctx context.Context, username string) (*domain.User, error)
	byIDFn   func(ctx context.Context, id int64) (*domain.User, error)
	createFn func(ctx context.Context, username, passwordHash string) (*domain.User, error)
	countFn  func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.byNameFn != nil {
		return m.byNameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockSessionRepo struct {
	created  map[string]*domain.Session
	getFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn func(ctx context.Context, token string) error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{created: make(map[string]*domain.Session)}
}

func (m *mockSessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	m.created[token] = &domain.Session{Token: token, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getFn != nil {
		return m.getFn(ctx, token)
	}
	if s, ok := m.created[token]; ok {
		return s, nil
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	delete(m.created, token)
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error { return nil }

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	hash := hashFor(t, "secret")
	users := &mockUserRepo{
		byNameFn: func(_ context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username, PasswordHash: hash}, nil
		},
	}
	sessions := newMockSessionRepo()
	svc := app.NewAuthService(users, sessions)

	token, err := svc.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if _, ok := sessions.created[token]; !ok {
		t.Fatal("expected session to be created")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash := hashFor(t, "secret")
	users := &mockUserRepo{
		byNameFn: func(_ context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username, PasswordHash: hash}, nil
		},
	}
	svc := app.NewAuthService(users, newMockSessionRepo())

	_, err := svc.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, app.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := app.NewAuthService(&mockUserRepo{}, newMockSessionRepo())

	_, err := svc.Login(context.Background(), "nobody", "secret")
	if !errors.Is(err, app.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateSession(t *testing.T) {
	users := &mockUserRepo{
		byIDFn: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Username: "alice"}, nil
		},
	}
	sessions := newMockSessionRepo()
	_ = sessions.Create(context.Background(), 1, "tok", time.Now().Add(time.Hour))

	svc := app.NewAuthService(users, sessions)
	user, err := svc.ValidateSession(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestValidateSessionExpired(t *testing.T) {
	sessions := newMockSessionRepo()
	_ = sessions.Create(context.Background(), 1, "tok", time.Now().Add(-time.Hour))

	svc := app.NewAuthService(&mockUserRepo{}, sessions)
	_, err := svc.ValidateSession(context.Background(), "tok")
	if !errors.Is(err, app.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := sessions.created["tok"]; ok {
		t.Fatal("expected expired session to be deleted")
	}
}

func TestValidateSessionMissing(t *testing.T) {
	svc := app.NewAuthService(&mockUserRepo{}, newMockSessionRepo())
	_, err := svc.ValidateSession(context.Background(), "missing")
	if !errors.Is(err, app.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestCreateInitialUser(t *testing.T) {
	var createdHash string
	users := &mockUserRepo{
		createFn: func(_ context.Context, username, passwordHash string) (*domain.User, error) {
			createdHash = passwordHash
			return &domain.User{ID: 1, Username: username}, nil
		},
	}
	svc := app.NewAuthService(users, newMockSessionRepo())

	if err := svc.CreateInitialUser(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(createdHash), []byte("secret")); err != nil {
		t.Fatal("stored hash does not match password")
	}
}

func TestCreateInitialUserRefusesSecond(t *testing.T) {
	users := &mockUserRepo{
		countFn: func(_ context.Context) (int, error) { return 1, nil },
	}
	svc := app.NewAuthService(users, newMockSessionRepo())

	if err := svc.CreateInitialUser(context.Background(), "bob", "pw"); err == nil {
		t.Fatal("expected error when users already exist")
	}
}

func TestValidateForwardAuthAutoProvisions(t *testing.T) {
	created := false
	users := &mockUserRepo{
		createFn: func(_ context.Context, username, passwordHash string) (*domain.User, error) {
			created = true
			return &domain.User{ID: 2, Username: username}, nil
		},
	}
	svc := app.NewAuthService(users, newMockSessionRepo())

	user, err := svc.ValidateForwardAuth(context.Background(), "sso-user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || user == nil || user.Username != "sso-user" {
		t.Fatalf("expected auto-provisioned user, got %+v", user)
	}
}
