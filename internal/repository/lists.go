package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"checklist/models"
	"checklist/store"
)

// ListRepository provides CRUD, existence checks and aggregate stats for
// task lists. Deleting a list cascades to its tasks inside the same save, so
// an orphaned task is never persisted.
type ListRepository struct {
	store  store.DocumentStore
	logger *log.Logger
}

// ListAll returns every list in persisted (creation) order.
func (r *ListRepository) ListAll() ([]models.TaskList, error) {
	doc, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	return doc.TaskLists, nil
}

// Get returns the list with the given id.
func (r *ListRepository) Get(id string) (models.TaskList, error) {
	doc, err := r.store.Load()
	if err != nil {
		return models.TaskList{}, err
	}
	for _, l := range doc.TaskLists {
		if l.ID == id {
			return l, nil
		}
	}
	return models.TaskList{}, models.NewNotFound("list", id)
}

// Create appends a new list with the trimmed name. Names must be unique
// case-insensitively across all lists.
func (r *ListRepository) Create(name string) (models.TaskList, error) {
	name = strings.TrimSpace(name)
	var created models.TaskList

	err := r.store.Update(func(doc *models.StorageDocument) error {
		for _, l := range doc.TaskLists {
			if models.SameName(l.Name, name) {
				return &models.DuplicateNameError{Name: name}
			}
		}
		created = models.NewTaskList(uuid.NewString(), name)
		if err := models.ValidateStruct(created); err != nil {
			return fmt.Errorf("validate new list: %w", err)
		}
		doc.TaskLists = append(doc.TaskLists, created)
		return nil
	})
	if err != nil {
		return models.TaskList{}, err
	}
	return created, nil
}

// Update applies the non-nil fields of upd to the list. A renamed list is
// re-checked for uniqueness against all other lists.
func (r *ListRepository) Update(id string, upd models.ListUpdate) (models.TaskList, error) {
	var updated models.TaskList

	err := r.store.Update(func(doc *models.StorageDocument) error {
		idx := -1
		for i, l := range doc.TaskLists {
			if l.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return models.NewNotFound("list", id)
		}

		list := doc.TaskLists[idx]
		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			for _, other := range doc.TaskLists {
				if other.ID != id && models.SameName(other.Name, name) {
					return &models.DuplicateNameError{Name: name}
				}
			}
			list.Name = name
		}
		list.UpdatedAt = time.Now().UTC()
		if err := models.ValidateStruct(list); err != nil {
			return fmt.Errorf("validate updated list: %w", err)
		}
		doc.TaskLists[idx] = list
		updated = list
		return nil
	})
	if err != nil {
		return models.TaskList{}, err
	}
	return updated, nil
}

// Delete removes the list and every task it owns in a single save. It
// returns false (without error) when the id is unknown.
func (r *ListRepository) Delete(id string) (bool, error) {
	removedTasks := 0

	err := r.store.Update(func(doc *models.StorageDocument) error {
		idx := -1
		for i, l := range doc.TaskLists {
			if l.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return models.NewNotFound("list", id)
		}

		doc.TaskLists = append(doc.TaskLists[:idx], doc.TaskLists[idx+1:]...)

		kept := doc.Tasks[:0]
		for _, t := range doc.Tasks {
			if t.ListID == id {
				removedTasks++
				continue
			}
			kept = append(kept, t)
		}
		doc.Tasks = kept
		return nil
	})
	if models.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if removedTasks > 0 {
		r.logger.Info("cascade deleted tasks with list", "listId", id, "tasks", removedTasks)
	}
	return true, nil
}

// Exists reports whether a list with the given id is present. The task
// repository uses it to validate foreign keys.
func (r *ListRepository) Exists(id string) (bool, error) {
	doc, err := r.store.Load()
	if err != nil {
		return false, err
	}
	return hasList(doc, id), nil
}

// Stats aggregates completion figures for one list.
func (r *ListRepository) Stats(id string) (models.ListStats, error) {
	doc, err := r.store.Load()
	if err != nil {
		return models.ListStats{}, err
	}
	if !hasList(doc, id) {
		return models.ListStats{}, models.NewNotFound("list", id)
	}
	return computeStats(tasksOfList(doc.Tasks, id)), nil
}
