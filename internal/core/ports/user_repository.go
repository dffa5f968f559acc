package ports

import (
	"context"

	"github.com/taskforge/task-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	// Delete removes the user permanently. Tasks owned by the user are
	// removed by the storage layer's cascade in the same operation.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip, limit int) ([]*domain.User, int64, error)
}
