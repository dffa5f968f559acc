package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-system/internal/core/domain"
	"github.com/taskforge/task-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub task service
// ---------------------------------------------------------------------------

type stubTaskService struct {
	listFn   func(ctx context.Context, who ports.Identity, skip, limit int) (*ports.ListTasksResult, error)
	getFn    func(ctx context.Context, who ports.Identity, taskID string) (*domain.Task, error)
	createFn func(ctx context.Context, who ports.Identity, in domain.TaskCreate, idempotencyKey string) (*domain.Task, error)
	updateFn func(ctx context.Context, who ports.Identity, taskID string, in domain.TaskUpdate) (*domain.Task, error)
	deleteFn func(ctx context.Context, who ports.Identity, taskID string) (string, error)
}

func (s *stubTaskService) List(ctx context.Context, who ports.Identity, skip, limit int) (*ports.ListTasksResult, error) {
	return s.listFn(ctx, who, skip, limit)
}

func (s *stubTaskService) Get(ctx context.Context, who ports.Identity, taskID string) (*domain.Task, error) {
	return s.getFn(ctx, who, taskID)
}

func (s *stubTaskService) Create(ctx context.Context, who ports.Identity, in domain.TaskCreate, idempotencyKey string) (*domain.Task, error) {
	return s.createFn(ctx, who, in, idempotencyKey)
}

func (s *stubTaskService) Update(ctx context.Context, who ports.Identity, taskID string, in domain.TaskUpdate) (*domain.Task, error) {
	return s.updateFn(ctx, who, taskID, in)
}

func (s *stubTaskService) Delete(ctx context.Context, who ports.Identity, taskID string) (string, error) {
	return s.deleteFn(ctx, who, taskID)
}

// newTestContext builds an echo context with the validator installed and the
// auth claims a passing middleware would have set.
func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u-alice")
	c.Set("email", "alice@example.com")
	c.Set("is_superuser", false)
	return c, rec
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTaskHandler_Create_Success(t *testing.T) {
	var gotKey string
	svc := &stubTaskService{
		createFn: func(_ context.Context, who ports.Identity, in domain.TaskCreate, key string) (*domain.Task, error) {
			gotKey = key
			return &domain.Task{
				ID:       "t-1",
				Title:    in.Title,
				Status:   domain.StatusPending,
				Priority: domain.PriorityMedium,
				OwnerID:  who.UserID,
			}, nil
		},
	}
	h := NewTaskHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/tasks", `{"title":"Ship report"}`)
	c.Request().Header.Set("Idempotency-Key", "key-1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotKey != "key-1" {
		t.Errorf("idempotency key not forwarded, got %q", gotKey)
	}

	var resp taskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "t-1" || resp.OwnerID != "u-alice" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestTaskHandler_Create_MissingTitle(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/tasks", `{}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTaskHandler_Create_PastDueDate(t *testing.T) {
	svc := &stubTaskService{
		createFn: func(_ context.Context, _ ports.Identity, _ domain.TaskCreate, _ string) (*domain.Task, error) {
			return nil, domain.NewValidationError("Due date must be in the future")
		},
	}
	h := NewTaskHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/tasks", `{"title":"ok","due_date":"2020-01-01T00:00:00Z"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp errorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "Due date must be in the future" {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestTaskHandler_Get_NotFound(t *testing.T) {
	svc := &stubTaskService{
		getFn: func(_ context.Context, _ ports.Identity, _ string) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	}
	h := NewTaskHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/tasks/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTaskHandler_Get_Forbidden(t *testing.T) {
	svc := &stubTaskService{
		getFn: func(_ context.Context, _ ports.Identity, _ string) (*domain.Task, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewTaskHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/tasks/t-1", "")
	c.SetParamNames("id")
	c.SetParamValues("t-1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestTaskHandler_List_ForwardsPagination(t *testing.T) {
	var gotSkip, gotLimit int
	svc := &stubTaskService{
		listFn: func(_ context.Context, _ ports.Identity, skip, limit int) (*ports.ListTasksResult, error) {
			gotSkip, gotLimit = skip, limit
			return &ports.ListTasksResult{
				Data:  []*domain.Task{{ID: "t-1", Title: "one", Status: domain.StatusPending, Priority: domain.PriorityLow, OwnerID: "u-alice"}},
				Count: 5,
			}, nil
		},
	}
	h := NewTaskHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/tasks?skip=2&limit=3", "")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotSkip != 2 || gotLimit != 3 {
		t.Errorf("pagination not forwarded: skip=%d limit=%d", gotSkip, gotLimit)
	}

	var resp listTasksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 5 || len(resp.Data) != 1 {
		t.Errorf("unexpected page: count=%d len=%d", resp.Count, len(resp.Data))
	}
}

func TestTaskHandler_List_RejectsNegativeSkip(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/tasks?skip=-1", "")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestTaskHandler_Update_InvalidStatusRejectedByValidator(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/tasks/t-1", `{"status":"archived"}`)
	c.SetParamNames("id")
	c.SetParamValues("t-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTaskHandler_Update_Success(t *testing.T) {
	svc := &stubTaskService{
		updateFn: func(_ context.Context, _ ports.Identity, taskID string, in domain.TaskUpdate) (*domain.Task, error) {
			if in.Status == nil || *in.Status != domain.StatusCompleted {
				t.Errorf("status not forwarded: %+v", in)
			}
			return &domain.Task{ID: taskID, Title: "one", Status: domain.StatusCompleted, Priority: domain.PriorityLow, OwnerID: "u-alice"}, nil
		},
	}
	h := NewTaskHandler(svc)

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/tasks/t-1", `{"status":"completed"}`)
	c.SetParamNames("id")
	c.SetParamValues("t-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTaskHandler_Delete_ReturnsConfirmation(t *testing.T) {
	svc := &stubTaskService{
		deleteFn: func(_ context.Context, _ ports.Identity, _ string) (string, error) {
			return "Task deleted successfully", nil
		},
	}
	h := NewTaskHandler(svc)

	c, rec := newTestContext(t, http.MethodDelete, "/api/v1/tasks/t-1", "")
	c.SetParamNames("id")
	c.SetParamValues("t-1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp messageResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Task deleted successfully" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestTaskHandler_MissingIdentity(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.List(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
