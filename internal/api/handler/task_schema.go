package handler

import (
	"time"

	"github.com/taskforge/task-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse carries a human-readable confirmation.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type createTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=1024"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"      validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=1024"`
	DueDate     *time.Time `json:"due_date"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
}

// taskResponse is the public projection of a task: always includes id and
// owner_id alongside the base fields, never anything internal.
type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	OwnerID     string     `json:"owner_id"`
}

type listTasksResponse struct {
	Data  []taskResponse `json:"data"`
	Count int64          `json:"count"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		OwnerID:     t.OwnerID,
	}
}

func toCreateInput(req createTaskRequest) domain.TaskCreate {
	return domain.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
	}
}

func toUpdateInput(req updateTaskRequest) domain.TaskUpdate {
	in := domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		in.Status = &s
	}
	if req.Priority != nil {
		p := domain.TaskPriority(*req.Priority)
		in.Priority = &p
	}
	return in
}
