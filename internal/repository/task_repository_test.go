package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskboard/internal/model"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}))
	return db
}

func createTask(t *testing.T, db *gorm.DB, userID uint, title string, status model.TaskStatus) *model.Task {
	t.Helper()

	task := &model.Task{Title: title, Status: status, UserID: userID}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestTaskRepository_ListForUser_ScopesToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	createTask(t, db, 1, "mine one", model.StatusPending)
	createTask(t, db, 1, "mine two", model.StatusPending)
	createTask(t, db, 2, "theirs", model.StatusPending)

	tasks, total, err := repo.ListForUser(ctx, 1, TaskListOptions{Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	assert.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, uint(1), task.UserID)
	}
}

func TestTaskRepository_ListForUser_SearchEscapesWildcards(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	createTask(t, db, 1, "100% Ready", model.StatusPending)
	createTask(t, db, 1, "100 Ready", model.StatusPending)
	createTask(t, db, 1, "a_b", model.StatusPending)
	createTask(t, db, 1, "axb", model.StatusPending)

	tasks, total, err := repo.ListForUser(ctx, 1, TaskListOptions{Search: "100%", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "100% Ready", tasks[0].Title)

	tasks, total, err = repo.ListForUser(ctx, 1, TaskListOptions{Search: "_", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "a_b", tasks[0].Title)
}

func TestTaskRepository_ListForUser_SearchIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	createTask(t, db, 1, "Ship Release", model.StatusPending)

	tasks, total, err := repo.ListForUser(ctx, 1, TaskListOptions{Search: "ship", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, tasks, 1)
}

func TestTaskRepository_ListForUser_SearchMatchesDescription(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	description := "hidden gem inside"
	task := &model.Task{Title: "plain", Description: &description, Status: model.StatusPending, UserID: 1}
	require.NoError(t, db.Create(task).Error)
	createTask(t, db, 1, "other", model.StatusPending)

	tasks, total, err := repo.ListForUser(ctx, 1, TaskListOptions{Search: "gem", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "plain", tasks[0].Title)
}

func TestTaskRepository_ListForUser_SortsByTitleAscending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	createTask(t, db, 1, "BBB", model.StatusPending)
	createTask(t, db, 1, "AAA", model.StatusPending)

	tasks, _, err := repo.ListForUser(ctx, 1, TaskListOptions{SortBy: "title", SortDir: "asc", Limit: 10})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "AAA", tasks[0].Title)
	assert.Equal(t, "BBB", tasks[1].Title)
}

func TestTaskRepository_ListForUser_Paginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createTask(t, db, 1, "task", model.StatusPending)
	}

	tasks, total, err := repo.ListForUser(ctx, 1, TaskListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, tasks, 2)

	// Past the end: empty page, count untouched.
	tasks, total, err = repo.ListForUser(ctx, 1, TaskListOptions{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, tasks)
}

func TestTaskRepository_FindByIDForUser_HidesForeignTasks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := createTask(t, db, 2, "theirs", model.StatusPending)

	found, err := repo.FindByIDForUser(ctx, task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, task.ID, found.ID)

	_, err = repo.FindByIDForUser(ctx, task.ID, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTaskRepository_DeleteByIDForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := createTask(t, db, 1, "doomed", model.StatusPending)

	// Another user cannot remove it.
	rows, err := repo.DeleteByIDForUser(ctx, task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	rows, err = repo.DeleteByIDForUser(ctx, task.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// Hard delete: the row is gone, a repeat delete finds nothing.
	rows, err = repo.DeleteByIDForUser(ctx, task.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"100%", "100!%"},
		{"a_b", "a!_b"},
		{"bang!", "bang!!"},
		{"%_!", "!%!_!!"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeLike(tt.in))
	}
}
