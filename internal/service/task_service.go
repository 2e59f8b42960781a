package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const (
	defaultPerPage = 10
	// MaxPerPage bounds a single page; the boundary rejects anything above it.
	MaxPerPage = 100
	// MaxSearchLength bounds the free-text search term.
	MaxSearchLength = 200
)

// ListTasksQuery carries the validated listing parameters. Zero values mean
// "use the default".
type ListTasksQuery struct {
	Search  string
	SortBy  string
	SortDir string
	PerPage int
	Page    int
}

// TaskPage is one page of a scoped task listing plus position metadata.
// From/To are 1-based inclusive indices into the full result set and null on
// an empty page.
type TaskPage struct {
	Data        []model.Task `json:"data"`
	CurrentPage int          `json:"current_page"`
	PerPage     int          `json:"per_page"`
	Total       int64        `json:"total"`
	LastPage    int          `json:"last_page"`
	From        *int         `json:"from"`
	To          *int         `json:"to"`
}

// CreateTaskInput holds the caller-supplied fields for a new task. The owner
// is never part of the input; it is forced to the caller's identity.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      string
}

// UpdateTaskInput holds a partial update; nil fields stay unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
}

// TaskService exposes the task operations, every one scoped to the calling
// user.
type TaskService interface {
	List(ctx context.Context, userID uint, query ListTasksQuery) (*TaskPage, error)
	Create(ctx context.Context, userID uint, input CreateTaskInput) (*model.Task, error)
	Get(ctx context.Context, userID, taskID uint) (*model.Task, error)
	Update(ctx context.Context, userID, taskID uint, input UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, userID, taskID uint) error
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) List(ctx context.Context, userID uint, query ListTasksQuery) (*TaskPage, error) {
	perPage := query.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}
	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortDir := query.SortDir
	if sortDir == "" {
		sortDir = "desc"
	}

	tasks, total, err := s.repo.ListForUser(ctx, userID, repository.TaskListOptions{
		Search:  query.Search,
		SortBy:  sortBy,
		SortDir: sortDir,
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	result := &TaskPage{
		Data:        tasks,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
	if len(tasks) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(tasks) - 1
		result.From = &from
		result.To = &to
	}
	return result, nil
}

func (s *taskService) Create(ctx context.Context, userID uint, input CreateTaskInput) (*model.Task, error) {
	status := model.TaskStatus(input.Status)
	if input.Status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	task := &model.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: normalizeDescription(input.Description),
		Status:      status,
		UserID:      userID,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.repo.FindByIDForUser(ctx, taskID, userID)
	if err != nil {
		return nil, mapTaskError(err)
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, userID, taskID uint, input UpdateTaskInput) (*model.Task, error) {
	task, err := s.repo.FindByIDForUser(ctx, taskID, userID)
	if err != nil {
		return nil, mapTaskError(err)
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = normalizeDescription(input.Description)
	}
	if input.Status != nil {
		status := model.TaskStatus(*input.Status)
		if !status.Valid() {
			return nil, apperrors.ErrInvalidStatus
		}
		task.Status = status
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, userID, taskID uint) error {
	rows, err := s.repo.DeleteByIDForUser(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	// A repeat delete finds nothing and must say so rather than no-op.
	if rows == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// normalizeDescription stores empty descriptions as NULL.
func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// mapTaskError hides ownership mismatches behind the same not-found error as
// plain absence.
func mapTaskError(err error) error {
	if err == gorm.ErrRecordNotFound {
		return apperrors.ErrTaskNotFound
	}
	return fmt.Errorf("load task: %w", err)
}
