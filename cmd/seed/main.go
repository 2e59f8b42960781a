package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// seedPassword is shared by every demo account.
const seedPassword = "password"

var demoTasks = []struct {
	title       string
	description string
	status      model.TaskStatus
}{
	{"Review onboarding notes", "Go through the getting-started checklist.", model.StatusPending},
	{"Draft weekly summary", "Collect highlights from the past week.", model.StatusInProgress},
	{"Archive finished items", "Clean up the completed column.", model.StatusCompleted},
}

func main() {
	log := logger.New("info", "text")
	log.Info("starting seed")

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Error("database init", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Error("auto-migrate", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		log.Error("hash password", "error", err)
		os.Exit(1)
	}

	// Deterministic accounts for the admin panel and the SPA login.
	seedUsers := []model.User{
		{Name: "Admin", Email: "admin@example.com", PasswordHash: string(hash), IsAdmin: true},
		{Name: "User", Email: "user@example.com", PasswordHash: string(hash)},
	}
	for i := 1; i <= 5; i++ {
		seedUsers = append(seedUsers, model.User{
			Name:         fmt.Sprintf("Demo User %d", i),
			Email:        fmt.Sprintf("demo%d@example.com", i),
			PasswordHash: string(hash),
		})
	}

	for i := range seedUsers {
		if err := userRepo.UpsertByEmail(ctx, &seedUsers[i]); err != nil {
			log.Error("upsert user", "email", seedUsers[i].Email, "error", err)
			os.Exit(1)
		}
	}
	log.Info("seeded users", "count", len(seedUsers))

	users, err := userRepo.ListNonAdmin(ctx)
	if err != nil {
		log.Error("list users", "error", err)
		os.Exit(1)
	}

	created := 0
	for _, user := range users {
		// Skip users that already have tasks so reruns stay idempotent.
		existing, _, err := taskRepo.ListForUser(ctx, user.ID, repository.TaskListOptions{Limit: 1})
		if err != nil {
			log.Error("check tasks", "user", user.Email, "error", err)
			os.Exit(1)
		}
		if len(existing) > 0 {
			continue
		}

		for _, t := range demoTasks {
			description := t.description
			task := &model.Task{
				Title:       t.title,
				Description: &description,
				Status:      t.status,
				UserID:      user.ID,
			}
			if err := taskRepo.Create(ctx, task); err != nil {
				log.Error("create task", "user", user.Email, "error", err)
				os.Exit(1)
			}
			created++
		}
	}

	log.Info("seed complete", "tasks_created", created)
}
