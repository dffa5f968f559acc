package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-system/internal/api/metrics"
	"github.com/taskforge/task-system/internal/core/domain"
	"github.com/taskforge/task-system/internal/core/ports"
)

const defaultPageLimit = 100

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /api/v1/tasks.
//
// @Summary      List the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Offset into the result set"  default(0)
// @Param        limit  query     int  false  "Page size"                   default(100)
// @Success      200    {object}  listTasksResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /api/v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "skip must be a non-negative integer"})
	}
	limit, err := queryInt(c, "limit", defaultPageLimit)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
	}

	result, err := h.service.List(c.Request().Context(), who, skip, limit)
	if err != nil {
		return err
	}

	resp := listTasksResponse{Data: make([]taskResponse, 0, len(result.Data)), Count: result.Count}
	for _, t := range result.Data {
		resp.Data = append(resp.Data, toTaskResponse(t))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/v1/tasks/:id.
//
// @Summary      Get a task by id
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), who, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.JSON(http.StatusForbidden, errorResponse{Error: "not enough permissions"})
		}
		return err
	}

	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Create handles POST /api/v1/tasks.
//
// @Summary      Create a new task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createTaskRequest  true   "Task details"
// @Success      201              {object}  taskResponse
// @Failure      400              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /api/v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")

	task, err := h.service.Create(c.Request().Context(), who, toCreateInput(req), idempotencyKey)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: ve.Error()})
		}
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Priority)).Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Update handles PUT /api/v1/tasks/:id. Only fields present in the payload
// are changed; everything else keeps its stored value.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	task, err := h.service.Update(c.Request().Context(), who, c.Param("id"), toUpdateInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.JSON(http.StatusForbidden, errorResponse{Error: "not enough permissions"})
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: ve.Error()})
		}
		return err
	}

	metrics.TasksUpdatedTotal.Inc()
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /api/v1/tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	who, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	msg, err := h.service.Delete(c.Request().Context(), who, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.JSON(http.StatusForbidden, errorResponse{Error: "not enough permissions"})
		}
		return err
	}

	metrics.TasksDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// queryInt parses a non-negative integer query parameter with a default.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid query parameter")
	}
	return n, nil
}
