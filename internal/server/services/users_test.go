package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dsmirnov/drivebox/internal/common"
	"github.com/dsmirnov/drivebox/internal/logging"
	"github.com/dsmirnov/drivebox/internal/server/auth"
	"github.com/dsmirnov/drivebox/internal/server/config"
	"github.com/dsmirnov/drivebox/internal/server/models"
)

// --- helpers ---

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:    "k",
		TokenTTL:     time.Hour,
		StoreTimeout: time.Second,
	}
}

type fakeUsersRepo struct {
	byEmail map[string]*models.User

	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return common.ErrConflict
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

// --- tests ---

func TestUserService_RegisterThenLogin(t *testing.T) {
	t.Parallel()

	repo := newFakeUsersRepo()
	cfg := testConfig()
	svc := NewUserService(repo, testLogger(), cfg)
	ctx := context.Background()

	if err := svc.Register(ctx, "a@x.com", "pw1"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	tok, err := svc.Login(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	subject, err := auth.SubjectFromToken(tok, []byte(cfg.SecretKey))
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if subject != "a@x.com" {
		t.Fatalf("subject mismatch: got %q want %q", subject, "a@x.com")
	}
}

func TestUserService_Register_StoresHashNotPlaintext(t *testing.T) {
	t.Parallel()

	repo := newFakeUsersRepo()
	svc := NewUserService(repo, testLogger(), testConfig())

	if err := svc.Register(context.Background(), "a@x.com", "pw1"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	u := repo.byEmail["a@x.com"]
	if u == nil {
		t.Fatalf("user record not created")
	}
	if u.PasswordHash == "pw1" || u.PasswordHash == "" {
		t.Fatalf("expected bcrypt hash, got %q", u.PasswordHash)
	}
	if !auth.CheckPassword("pw1", u.PasswordHash) {
		t.Fatalf("stored hash does not verify against original password")
	}
}

func TestUserService_Register_DuplicateEmailConflict(t *testing.T) {
	t.Parallel()

	repo := newFakeUsersRepo()
	svc := NewUserService(repo, testLogger(), testConfig())
	ctx := context.Background()

	if err := svc.Register(ctx, "a@x.com", "pw1"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	original := repo.byEmail["a@x.com"]

	err := svc.Register(ctx, "a@x.com", "pw2")
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected common.ErrConflict, got %v", err)
	}
	if repo.byEmail["a@x.com"] != original {
		t.Fatalf("original record must stay unchanged after a conflicting register")
	}
}

func TestUserService_Register_DuplicateRaceCaughtByIndex(t *testing.T) {
	t.Parallel()

	// Lookup misses but the insert hits the unique index, as it would when
	// two registrations race.
	repo := newFakeUsersRepo()
	repo.createErr = common.ErrConflict
	svc := NewUserService(repo, testLogger(), testConfig())

	err := svc.Register(context.Background(), "a@x.com", "pw1")
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected common.ErrConflict, got %v", err)
	}
}

func TestUserService_Register_EmptyInputInvalid(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUsersRepo(), testLogger(), testConfig())

	if err := svc.Register(context.Background(), "", "pw"); !errors.Is(err, common.ErrInvalid) {
		t.Fatalf("expected common.ErrInvalid for empty email, got %v", err)
	}
	if err := svc.Register(context.Background(), "a@x.com", ""); !errors.Is(err, common.ErrInvalid) {
		t.Fatalf("expected common.ErrInvalid for empty password, got %v", err)
	}
}

func TestUserService_Login_WrongPasswordUnauthorized(t *testing.T) {
	t.Parallel()

	repo := newFakeUsersRepo()
	svc := NewUserService(repo, testLogger(), testConfig())
	ctx := context.Background()

	if err := svc.Register(ctx, "a@x.com", "pw1"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	tok, err := svc.Login(ctx, "a@x.com", "wrong")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected common.ErrUnauthorized, got %v", err)
	}
	if tok != "" {
		t.Fatalf("no token must be issued on failed login, got %q", tok)
	}
}

func TestUserService_Login_UnknownEmailUnauthorized(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newFakeUsersRepo(), testLogger(), testConfig())

	_, err := svc.Login(context.Background(), "ghost@x.com", "pw")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected common.ErrUnauthorized, got %v", err)
	}
}

func TestUserService_Login_StoreTimeoutUnavailable(t *testing.T) {
	t.Parallel()

	repo := newFakeUsersRepo()
	repo.getErr = context.DeadlineExceeded
	svc := NewUserService(repo, testLogger(), testConfig())

	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	if !errors.Is(err, common.ErrUnavailable) {
		t.Fatalf("expected common.ErrUnavailable, got %v", err)
	}
}
