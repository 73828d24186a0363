package models

import (
	"fmt"
	"time"
)

// SchemaVersion is the document schema version written by this build.
const SchemaVersion = "1.0.0"

// Metadata carries document-level bookkeeping.
type Metadata struct {
	Version     string    `json:"version" validate:"required"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// StorageDocument is the persisted root aggregate: every list and every task
// lives in this single document. It is the sole source of truth; callers
// never cache it between operations.
type StorageDocument struct {
	TaskLists []TaskList `json:"taskLists" validate:"dive"`
	Tasks     []Task     `json:"tasks" validate:"dive"`
	Metadata  Metadata   `json:"metadata"`
}

// NewStorageDocument returns an empty document at the current schema version.
func NewStorageDocument() *StorageDocument {
	return &StorageDocument{
		TaskLists: []TaskList{},
		Tasks:     []Task{},
		Metadata: Metadata{
			Version:     SchemaVersion,
			LastUpdated: time.Now().UTC(),
		},
	}
}

// Normalize replaces nil slices with empty ones so the document always
// serializes as arrays rather than null.
func (d *StorageDocument) Normalize() {
	if d.TaskLists == nil {
		d.TaskLists = []TaskList{}
	}
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Metadata.Version == "" {
		d.Metadata.Version = SchemaVersion
	}
}

// CheckIntegrity verifies the cross-entity invariants: no orphaned tasks and
// no two lists sharing a case-insensitive name. A document that fails this
// check must never be persisted.
func (d *StorageDocument) CheckIntegrity() error {
	listIDs := make(map[string]struct{}, len(d.TaskLists))
	names := make(map[string]struct{}, len(d.TaskLists))
	for _, l := range d.TaskLists {
		listIDs[l.ID] = struct{}{}
		key := foldName(l.Name)
		if _, dup := names[key]; dup {
			return fmt.Errorf("duplicate list name %q", l.Name)
		}
		names[key] = struct{}{}
	}
	for _, t := range d.Tasks {
		if _, ok := listIDs[t.ListID]; !ok {
			return fmt.Errorf("task %s references missing list %s", t.ID, t.ListID)
		}
	}
	return nil
}
