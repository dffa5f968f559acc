package ports

import (
	"context"

	"github.com/taskforge/task-system/internal/core/domain"
)

// Identity is the authenticated caller, as established by the auth
// middleware from the bearer token claims.
type Identity struct {
	UserID      string
	Email       string
	IsSuperuser bool
}

// ListTasksResult is the page returned by List: the caller's tasks plus
// the total number of tasks the caller owns.
type ListTasksResult struct {
	Data  []*domain.Task
	Count int64
}

// TaskService defines the use-case operations over tasks. Get, Update and
// Delete apply the owner-or-superuser rule; List is always scoped to the
// caller's own tasks, superuser or not.
type TaskService interface {
	List(ctx context.Context, who Identity, skip, limit int) (*ListTasksResult, error)
	Get(ctx context.Context, who Identity, taskID string) (*domain.Task, error)
	// Create validates the payload, assigns ownership to the caller and
	// persists. When idempotencyKey is non-empty and was seen before, the
	// originally created task is returned without a second insert.
	Create(ctx context.Context, who Identity, in domain.TaskCreate, idempotencyKey string) (*domain.Task, error)
	Update(ctx context.Context, who Identity, taskID string, in domain.TaskUpdate) (*domain.Task, error)
	// Delete removes the task and returns a confirmation message.
	Delete(ctx context.Context, who Identity, taskID string) (string, error)
}
