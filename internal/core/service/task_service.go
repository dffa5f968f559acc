package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskforge/task-system/internal/core/domain"
	"github.com/taskforge/task-system/internal/core/ports"
)

// TaskService implements list/get/create/update/delete over tasks with the
// owner-or-superuser rule. Each operation is one read-then-check-then-write
// unit of work; concurrent updates are last-write-wins at the field level.
type TaskService struct {
	repo   ports.TaskRepository
	idem   ports.IdempotencyStore
	logger zerolog.Logger

	// now is the clock used for due-date validation. Injected so tests do
	// not depend on wall-clock time.
	now func() time.Time
}

func NewTaskService(repo ports.TaskRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, idem: idem, logger: logger, now: time.Now}
}

// List returns the caller's page of tasks plus the caller's total count.
// Scoping is always by owner, even for superusers.
func (s *TaskService) List(ctx context.Context, who ports.Identity, skip, limit int) (*ports.ListTasksResult, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}

	tasks, count, err := s.repo.ListByOwner(ctx, who.UserID, skip, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", who.UserID).Msg("failed to list tasks")
		return nil, err
	}
	return &ports.ListTasksResult{Data: tasks, Count: count}, nil
}

// Get returns the task, failing with ErrTaskNotFound before ErrForbidden so
// callers can tell "doesn't exist" from "not yours".
func (s *TaskService) Get(ctx context.Context, who ports.Identity, taskID string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !canAccess(who, task) {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

// Create validates the payload, assigns ownership and a server-generated id,
// and persists. A replayed Idempotency-Key returns the original task.
func (s *TaskService) Create(ctx context.Context, who ports.Identity, in domain.TaskCreate, idempotencyKey string) (*domain.Task, error) {
	if idempotencyKey != "" {
		if existing := s.replay(ctx, who.UserID, idempotencyKey); existing != nil {
			return existing, nil
		}
	}

	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      in.Status,
		Priority:    in.Priority,
		OwnerID:     who.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("owner_id", who.UserID).Msg("failed to create task")
		return nil, err
	}

	if idempotencyKey != "" {
		if err := s.idem.Remember(ctx, who.UserID, idempotencyKey, task.ID); err != nil {
			// Idempotency is best effort: a store failure must not undo the write.
			s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("failed to record idempotency key")
		}
	}

	s.logger.Info().Str("task_id", task.ID).Str("owner_id", who.UserID).Msg("task created")
	return task, nil
}

// replay returns the previously created task for this owner/key pair, or
// nil when the key is unknown or the lookup fails.
func (s *TaskService) replay(ctx context.Context, ownerID, key string) *domain.Task {
	taskID, err := s.idem.Lookup(ctx, ownerID, key)
	if err != nil || taskID == "" {
		return nil
	}
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("task_id", task.ID).Msg("idempotent replay")
	return task
}

// Update merges only the supplied fields into the stored task. Fields
// absent from the payload keep their previous values.
func (s *TaskService) Update(ctx context.Context, who ports.Identity, taskID string, in domain.TaskUpdate) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !canAccess(who, task) {
		return nil, domain.ErrForbidden
	}

	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}

	in.ApplyTo(task)
	task.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Msg("failed to update task")
		return nil, err
	}

	return task, nil
}

// Delete removes the task permanently and returns a confirmation message.
func (s *TaskService) Delete(ctx context.Context, who ports.Identity, taskID string) (string, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return "", err
	}
	if !canAccess(who, task) {
		return "", domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, taskID); err != nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Msg("failed to delete task")
		return "", err
	}

	s.logger.Info().Str("task_id", taskID).Str("owner_id", task.OwnerID).Msg("task deleted")
	return "Task deleted successfully", nil
}

// canAccess applies the ownership rule for Get/Update/Delete.
func canAccess(who ports.Identity, task *domain.Task) bool {
	return task.OwnerID == who.UserID || who.IsSuperuser
}
