package models

import "time"

// TaskPriority ranks a manual maintenance task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// IsValidPriority checks if a priority is one of low, medium or high.
func IsValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// IsReportableStatus checks if crew may report status for a system.
func IsReportableStatus(s Status) bool {
	switch s {
	case StatusOperational, StatusDueSoon, StatusOverdue, StatusCritical, StatusOffline:
		return true
	default:
		return false
	}
}

// SystemRecord is the manually kept part of a vessel system: what the crew
// reported and what they still plan to do.
type SystemRecord struct {
	Status    Status    `json:"status,omitempty" bson:"status,omitempty"`
	Tasks     []Task    `json:"tasks,omitempty" bson:"tasks,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Task is a one-off maintenance job on a system, outside the rule book.
type Task struct {
	ID        string       `json:"id" bson:"id"`
	Task      string       `json:"task" bson:"task"`
	Due       string       `json:"due" bson:"due"` // YYYY-MM-DD
	Priority  TaskPriority `json:"priority" bson:"priority"`
	Completed bool         `json:"completed" bson:"completed"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}

// SystemStatusRequest reports the status of a system.
type SystemStatusRequest struct {
	Status Status `json:"status"`
}

// CreateTaskRequest is the body accepted when adding a task.
type CreateTaskRequest struct {
	Task     string       `json:"task"`
	Due      string       `json:"due"`
	Priority TaskPriority `json:"priority"`
}

// UpdateTaskRequest changes the provided task fields; nil fields are left alone.
type UpdateTaskRequest struct {
	Task      *string       `json:"task"`
	Due       *string       `json:"due"`
	Priority  *TaskPriority `json:"priority"`
	Completed *bool         `json:"completed"`
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateTaskRequest) IsEmpty() bool {
	return r.Task == nil && r.Due == nil && r.Priority == nil && r.Completed == nil
}
