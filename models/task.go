package models

import "time"

// Task represents a single to-do item belonging to a task list.
//
// Time is free text ("after lunch", "18:00"); no format is imposed on it.
type Task struct {
	ID        string    `json:"id" validate:"required,uuid4"`
	Title     string    `json:"title" validate:"required,min=1,max=255"`
	Time      string    `json:"time,omitempty" validate:"max=255"`
	Completed bool      `json:"completed"`
	ListID    string    `json:"listId" validate:"required,uuid4"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
	UpdatedAt time.Time `json:"updatedAt" validate:"required"`
}

// TaskUpdate describes a partial update to a task. Nil fields preserve the
// stored value, non-nil fields override it.
type TaskUpdate struct {
	Title     *string `json:"title,omitempty"`
	Time      *string `json:"time,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// NewTask builds a pending task with a fresh ID and timestamps.
func NewTask(id, listID, title, timeHint string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        id,
		Title:     title,
		Time:      timeHint,
		Completed: false,
		ListID:    listID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
