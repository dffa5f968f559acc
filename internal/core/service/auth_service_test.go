package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/task-system/internal/core/domain"
	"github.com/taskforge/task-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	deleted []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrUserExists
	}
	clone := *u
	r.byID[u.ID] = &clone
	r.byEmail[u.Email] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	old, ok := r.byID[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byEmail, old.Email)
	clone := *u
	r.byID[u.ID] = &clone
	r.byEmail[u.Email] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, skip, limit int) ([]*domain.User, int64, error) {
	var users []*domain.User
	for _, u := range r.byID {
		clone := *u
		users = append(users, &clone)
	}
	count := int64(len(users))
	if skip > len(users) {
		return []*domain.User{}, count, nil
	}
	end := skip + limit
	if end > len(users) {
		end = len(users)
	}
	return users[skip:end], count, nil
}

func newTestAuthService(repo ports.UserRepository) *AuthService {
	return NewAuthService(repo, "test-secret", time.Hour, discardLogger)
}

// ---------------------------------------------------------------------------
// Signup tests
// ---------------------------------------------------------------------------

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	name := "Alice Example"
	user, err := svc.Signup(context.Background(), "alice@example.com", "secret-pass", &name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID == "" {
		t.Error("id must be server-generated")
	}
	if !user.IsActive {
		t.Error("new users must be active")
	}
	if user.IsSuperuser {
		t.Error("new users must not be superusers")
	}
	if user.HashedPassword == "secret-pass" {
		t.Error("password must be hashed, not stored in clear")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("secret-pass")) != nil {
		t.Error("stored hash must verify against the original password")
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), "alice@example.com", "secret-pass", nil); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(context.Background(), "alice@example.com", "other-pass", nil)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_EmptyCredentials(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Signup(context.Background(), "", "pass", nil); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "a@example.com", "", nil); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login tests
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	svc.Signup(context.Background(), "alice@example.com", "secret-pass", nil)

	token, user, err := svc.Login(context.Background(), "alice@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("token must not be empty")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("wrong user returned: %q", user.Email)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	svc.Signup(context.Background(), "alice@example.com", "secret-pass", nil)

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pass")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _ := svc.Signup(context.Background(), "alice@example.com", "secret-pass", nil)
	stored := repo.byID[user.ID]
	stored.IsActive = false
	repo.byEmail[stored.Email] = stored

	_, _, err := svc.Login(context.Background(), "alice@example.com", "secret-pass")
	if !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Profile / password tests
// ---------------------------------------------------------------------------

func TestAuthService_UpdateProfile_MergesOnlySuppliedFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	name := "Alice"
	user, _ := svc.Signup(context.Background(), "alice@example.com", "secret-pass", &name)

	newEmail := "alice@new.example.com"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ports.UpdateProfileInput{Email: &newEmail})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Email != newEmail {
		t.Errorf("email not applied: %q", updated.Email)
	}
	if updated.FullName == nil || *updated.FullName != "Alice" {
		t.Error("full name must be untouched")
	}
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _ := svc.Signup(context.Background(), "alice@example.com", "secret-pass", nil)

	err := svc.ChangePassword(context.Background(), user.ID, "wrong", "new-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _ := svc.Signup(context.Background(), "alice@example.com", "secret-pass", nil)

	if err := svc.ChangePassword(context.Background(), user.ID, "secret-pass", "new-password"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "new-password"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "secret-pass"); err == nil {
		t.Fatal("old password must no longer work")
	}
}

// ---------------------------------------------------------------------------
// Admin tests
// ---------------------------------------------------------------------------

func TestAuthService_DeleteUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, _ := svc.Signup(context.Background(), "alice@example.com", "secret-pass", nil)

	msg, err := svc.DeleteUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "User deleted successfully" {
		t.Errorf("unexpected confirmation: %q", msg)
	}

	if _, err := svc.GetUser(context.Background(), user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleted user must be gone, got %v", err)
	}
}

func TestAuthService_DeleteUser_NotFound(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	_, err := svc.DeleteUser(context.Background(), "missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
