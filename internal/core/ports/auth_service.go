package ports

import (
	"context"

	"github.com/taskforge/task-system/internal/core/domain"
)

// UpdateProfileInput carries the optional profile fields a user may change.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	Email    *string
	FullName *string
}

// ListUsersResult is the page returned by ListUsers.
type ListUsersResult struct {
	Data  []*domain.User
	Count int64
}

// AuthService implements account lifecycle and credential operations.
type AuthService interface {
	Signup(ctx context.Context, email, password string, fullName *string) (*domain.User, error)
	// Login verifies credentials and returns a signed bearer token plus the
	// authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ListUsers(ctx context.Context, skip, limit int) (*ListUsersResult, error)
	// DeleteUser removes the account and, via the storage cascade, every
	// task it owns. Returns a confirmation message.
	DeleteUser(ctx context.Context, userID string) (string, error)
}
