package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

// TaskHandler handles the task CRUD endpoints. Every operation is scoped to
// the authenticated user resolved by SessionAuth.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasksRequest represents the listing query parameters.
type ListTasksRequest struct {
	Search  string `query:"search" validate:"omitempty,max=200"`
	SortBy  string `query:"sort_by" validate:"omitempty,oneof=created_at title status"`
	SortDir string `query:"sort_dir" validate:"omitempty,oneof=asc desc"`
	PerPage *int   `query:"per_page" validate:"omitempty,min=1,max=100"`
	Page    *int   `query:"page" validate:"omitempty,min=1"`
}

// CreateTaskRequest represents a task creation body.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Status      string  `json:"status" validate:"omitempty,oneof='Pending' 'In Progress' 'Completed'"`
}

// UpdateTaskRequest represents a partial task update; nil fields are left
// unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// List godoc
// @Summary List the caller's tasks
// @Description Filtered, sorted and paginated; always scoped to the authenticated user.
// @Tags tasks
// @Produce json
// @Param search query string false "Substring match on title or description"
// @Param sort_by query string false "created_at | title | status"
// @Param sort_dir query string false "asc | desc"
// @Param per_page query int false "Page size (1-100, default 10)"
// @Param page query int false "Page number (default 1)"
// @Success 200 {object} service.TaskPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	var req ListTasksRequest
	if err := c.Bind(&req); err != nil {
		return respondFieldError(c, "per_page", "The query parameters are malformed.")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	query := service.ListTasksQuery{
		Search:  req.Search,
		SortBy:  req.SortBy,
		SortDir: req.SortDir,
	}
	if req.PerPage != nil {
		query.PerPage = *req.PerPage
	}
	if req.Page != nil {
		query.Page = *req.Page
	}

	page, err := h.taskService.List(c.Request().Context(), CurrentUser(c).ID, query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Create godoc
// @Summary Create a task owned by the caller
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body CreateTaskRequest true "Task fields"
// @Success 201 {object} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return respondFieldError(c, "title", "The request body is malformed.")
	}
	if err := c.Validate(&req); err != nil {
		return respondValidation(c, err)
	}
	if strings.TrimSpace(req.Title) == "" {
		return respondFieldError(c, "title", "The title field is required.")
	}

	task, err := h.taskService.Create(c.Request().Context(), CurrentUser(c).ID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

// Show godoc
// @Summary Fetch one of the caller's tasks
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Show(c echo.Context) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return respondError(c, err)
	}

	task, err := h.taskService.Get(c.Request().Context(), CurrentUser(c).ID, taskID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// Update godoc
// @Summary Partially update one of the caller's tasks
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return respondFieldError(c, "title", "The request body is malformed.")
	}
	if err := validateUpdate(c, req); err != nil {
		return err
	}

	task, err := h.taskService.Update(c.Request().Context(), CurrentUser(c).ID, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete one of the caller's tasks
// @Tags tasks
// @Param id path int true "Task ID"
// @Success 204 "No Content"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.taskService.Delete(c.Request().Context(), CurrentUser(c).ID, taskID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// validateUpdate checks the supplied subset of fields. Partial bodies make
// struct-tag validation awkward, so the checks are spelled out.
func validateUpdate(c echo.Context, req UpdateTaskRequest) error {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return respondFieldError(c, "title", "The title field is required.")
		}
		if len(*req.Title) > 255 {
			return respondFieldError(c, "title", "The title field is too long.")
		}
	}
	if req.Description != nil && len(*req.Description) > 1000 {
		return respondFieldError(c, "description", "The description field is too long.")
	}
	if req.Status != nil && !model.TaskStatus(*req.Status).Valid() {
		return respondFieldError(c, "status", "The selected status is invalid.")
	}
	return nil
}

// parseTaskID reads the path parameter. A malformed id cannot name an owned
// task, so it reads as not found rather than as a validation failure.
func parseTaskID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.ErrTaskNotFound
	}
	return uint(id), nil
}
