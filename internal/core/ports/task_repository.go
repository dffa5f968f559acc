package ports

import (
	"context"

	"github.com/taskforge/task-system/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// ListByOwner returns a page of the owner's tasks plus the total number
	// of tasks that owner has. Ordering is by creation time, then id, so
	// pages are stable across requests.
	ListByOwner(ctx context.Context, ownerID string, skip, limit int) ([]*domain.Task, int64, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}
