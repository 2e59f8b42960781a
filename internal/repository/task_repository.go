package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// likeEscaper makes a search term safe inside a LIKE pattern. '!' is declared
// as the escape character in the query so the same pattern behaves
// identically on MySQL and SQLite; a search for "100%" must match only the
// literal text "100%".
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// EscapeLike escapes LIKE wildcards in a user-supplied search term.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// sortColumns whitelists sortable columns; anything else never reaches SQL.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"status":     "status",
}

// TaskListOptions narrows and orders a scoped task listing.
type TaskListOptions struct {
	Search  string
	SortBy  string // one of sortColumns, already validated at the boundary
	SortDir string // "asc" or "desc"
	Limit   int
	Offset  int
}

// TaskRepository defines task persistence operations. Every reading or
// mutating method is scoped by the owning user id; there is deliberately no
// unscoped lookup.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByIDForUser(ctx context.Context, id, userID uint) (*model.Task, error)
	Save(ctx context.Context, task *model.Task) error
	DeleteByIDForUser(ctx context.Context, id, userID uint) (int64, error)
	ListForUser(ctx context.Context, userID uint, opts TaskListOptions) ([]model.Task, int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Save(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// DeleteByIDForUser hard-deletes and returns the number of removed rows so
// callers can distinguish a repeat delete.
func (r *taskRepository) DeleteByIDForUser(ctx context.Context, id, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Task{})
	return res.RowsAffected, res.Error
}

func (r *taskRepository) ListForUser(ctx context.Context, userID uint, opts TaskListOptions) ([]model.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).Where("user_id = ?", userID)

	if opts.Search != "" {
		like := "%" + EscapeLike(opts.Search) + "%"
		q = q.Where("(title LIKE ? ESCAPE '!' OR description LIKE ? ESCAPE '!')", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	dir := "desc"
	if strings.EqualFold(opts.SortDir, "asc") {
		dir = "asc"
	}

	var tasks []model.Task
	err := q.
		// Secondary id key keeps ties in insertion order.
		Order(fmt.Sprintf("%s %s, id asc", column, dir)).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}
