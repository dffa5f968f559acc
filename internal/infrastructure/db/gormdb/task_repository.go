package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskforge/task-system/internal/core/domain"
)

// TaskRepository implements ports.TaskRepository over the relational store.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	row := taskToRow(t)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var row taskRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return rowToTask(&row), nil
}

// ListByOwner returns a page of the owner's tasks and the owner's total
// count. Ordered by created_at then id so pagination is stable.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string, skip, limit int) ([]*domain.Task, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&taskRow{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	var rows []taskRow
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at, id").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rowToTask(&rows[i]))
	}
	return tasks, count, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	row := taskToRow(t)
	result := r.db.WithContext(ctx).Model(&taskRow{}).Where("id = ?", t.ID).Select("*").Omit("id", "created_at").Updates(&row)
	if result.Error != nil {
		return fmt.Errorf("update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&taskRow{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func taskToRow(t *domain.Task) taskRow {
	return taskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func rowToTask(row *taskRow) *domain.Task {
	return &domain.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		DueDate:     row.DueDate,
		Status:      domain.TaskStatus(row.Status),
		Priority:    domain.TaskPriority(row.Priority),
		OwnerID:     row.OwnerID,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
