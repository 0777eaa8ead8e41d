package model

import (
	"strings"
	"time"
)

// TaskStatus is the workflow column of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskReview     TaskStatus = "REVIEW"
	TaskDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

// Normalize upper-cases s so "todo" and "TODO" name the same column.
func (s TaskStatus) Normalize() TaskStatus {
	return TaskStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Normalize upper-cases p.
func (p TaskPriority) Normalize() TaskPriority {
	return TaskPriority(strings.ToUpper(strings.TrimSpace(string(p))))
}

// UnassignedName is shown for tasks without a resolvable assignee.
const UnassignedName = "Unassigned"

// Task represents a task in the database.
type Task struct {
	ID           string
	ProjectID    string
	Title        string
	Description  string
	Status       TaskStatus
	Priority     TaskPriority
	AssigneeID   string
	AssigneeName string
	DueDate      *time.Time
	CreatedAt    time.Time
}

// TaskRequest is used for both task creation and partial updates.
// Pointer fields distinguish "not sent" from an explicit value.
type TaskRequest struct {
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	ProjectID   string        `json:"projectId"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	AssignedID  *string       `json:"assignedId"`
}

// TaskResponse represents task data returned by the API.
type TaskResponse struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	AssigneeName string       `json:"assigneeName"`
	ProjectID    string       `json:"projectId"`
}

// NewTaskResponse maps a Task to its response shape.
func NewTaskResponse(t *Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		AssigneeName: t.AssigneeName,
		ProjectID:    t.ProjectID,
	}
}
