package model

import (
	"time"
)

// TaskStatus represents the current status of a request task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCanceled  TaskStatus = "canceled"
)

// RequestTask represents a single GET request scheduled for a target time.
// FireAt and Delay are computed once from the schedule reference instant and
// never change for the life of the task.
type RequestTask struct {
	ID     string        `json:"id"`
	Raw    string        `json:"raw"`
	URL    string        `json:"url"`
	FireAt time.Time     `json:"fire_at"`
	Delay  time.Duration `json:"delay"`
	Status TaskStatus    `json:"status"`

	// Timing fields
	FiredAt     *time.Time `json:"fired_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Execution details
	ErrorMessage string `json:"error_message,omitempty"`
}

// TaskResult represents the outcome of a fired request
type TaskResult struct {
	TaskID      string     `json:"task_id"`
	Status      TaskStatus `json:"status"`
	StatusCode  int        `json:"status_code,omitempty"`
	Body        []byte     `json:"body,omitempty"`
	Error       string     `json:"error,omitempty"`
	CompletedAt time.Time  `json:"completed_at"`
}
