package models

import "time"

// TaskList represents a named collection of tasks.
type TaskList struct {
	ID        string    `json:"id" validate:"required,uuid4"`
	Name      string    `json:"name" validate:"required,min=1,max=255"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
	UpdatedAt time.Time `json:"updatedAt" validate:"required"`
}

// ListUpdate describes a partial update to a task list. A nil field is left
// untouched; a non-nil field overrides the stored value.
type ListUpdate struct {
	Name *string `json:"name,omitempty"`
}

// ListStats aggregates task completion figures for one list, or for the
// whole store when no list is specified.
type ListStats struct {
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	PendingTasks   int     `json:"pendingTasks"`
	CompletionRate float64 `json:"completionRate"`
}

// NewTaskList builds a list with a fresh ID and timestamps.
func NewTaskList(id, name string) TaskList {
	now := time.Now().UTC()
	return TaskList{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
