package domain

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// TaskStatus is the lifecycle label of a task. It is a closed enumeration
// with equality-only semantics: any status may replace any other on update,
// no transition graph is enforced.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is a member of the enumeration.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TaskPriority is the urgency label of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a member of the enumeration.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

var ErrTaskNotFound = errors.New("task not found")
var ErrForbidden = errors.New("not enough permissions")

// ValidationError reports a constraint violation on a submitted payload.
// The boundary layer renders it as a client error; it is never retried.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string { return e.msg }

const (
	maxTitleLen       = 255
	maxDescriptionLen = 1024
)

// Task is the core entity: a unit of work owned by exactly one user.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	DueDate     *time.Time   `json:"due_date"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	OwnerID     string       `json:"owner_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskCreate is the payload accepted when creating a task.
// Status and priority default to pending/medium when left empty.
type TaskCreate struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Status      TaskStatus
	Priority    TaskPriority
}

// Validate normalizes defaults and checks every field constraint.
// The due date, when present, must be strictly later than now; the check
// happens at submission time only and is never re-evaluated later.
func (in *TaskCreate) Validate(now time.Time) error {
	if n := utf8.RuneCountInString(in.Title); n < 1 || n > maxTitleLen {
		return NewValidationError(fmt.Sprintf("Title must be between 1 and %d characters", maxTitleLen))
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		return NewValidationError(fmt.Sprintf("Description must be at most %d characters", maxDescriptionLen))
	}
	if in.Status == "" {
		in.Status = StatusPending
	} else if !in.Status.Valid() {
		return NewValidationError(fmt.Sprintf("Invalid status %q", in.Status))
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	} else if !in.Priority.Valid() {
		return NewValidationError(fmt.Sprintf("Invalid priority %q", in.Priority))
	}
	if in.DueDate != nil && !in.DueDate.After(now) {
		return NewValidationError("Due date must be in the future")
	}
	return nil
}

// TaskUpdate is the partial-update payload: nil fields are left untouched
// on the target task, non-nil fields overwrite exactly.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *TaskStatus
	Priority    *TaskPriority
}

// Validate checks only the fields that were supplied.
func (in TaskUpdate) Validate(now time.Time) error {
	if in.Title != nil {
		if n := utf8.RuneCountInString(*in.Title); n < 1 || n > maxTitleLen {
			return NewValidationError(fmt.Sprintf("Title must be between 1 and %d characters", maxTitleLen))
		}
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		return NewValidationError(fmt.Sprintf("Description must be at most %d characters", maxDescriptionLen))
	}
	if in.Status != nil && !in.Status.Valid() {
		return NewValidationError(fmt.Sprintf("Invalid status %q", *in.Status))
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return NewValidationError(fmt.Sprintf("Invalid priority %q", *in.Priority))
	}
	if in.DueDate != nil && !in.DueDate.After(now) {
		return NewValidationError("Due date must be in the future")
	}
	return nil
}

// ApplyTo merges the supplied fields into t.
func (in TaskUpdate) ApplyTo(t *Task) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
}
