package model

import "time"

// TaskStatus is the closed set of task states. Client-supplied strings are
// validated at the boundary and never flow past it unchecked.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists every valid status.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the three known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task belongs to exactly one user; ownership is exclusive control over
// read/update/delete through the API.
type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description *string    `json:"description" gorm:"size:1000"`
	Status      TaskStatus `json:"status" gorm:"size:20;not null;default:'Pending';index"`
	UserID      uint       `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
