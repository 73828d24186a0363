package repository

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"checklist/models"
	"checklist/store"
)

// TaskRepository provides CRUD, search and stats for tasks. Every task must
// reference an existing list at creation time; list existence is checked
// against the same document snapshot the mutation is applied to.
type TaskRepository struct {
	store  store.DocumentStore
	logger *log.Logger
}

// newestFirst orders tasks by creation time descending, stable.
func newestFirst(tasks []models.Task) {
	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// ListByListID returns the tasks of one list, newest first. It fails with a
// not-found error when the list itself does not exist.
func (r *TaskRepository) ListByListID(listID string) ([]models.Task, error) {
	doc, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if !hasList(doc, listID) {
		return nil, models.NewNotFound("list", listID)
	}
	tasks := tasksOfList(doc.Tasks, listID)
	newestFirst(tasks)
	return tasks, nil
}

// ListAll returns every task across all lists, newest first.
func (r *TaskRepository) ListAll() ([]models.Task, error) {
	doc, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	tasks := slices.Clone(doc.Tasks)
	newestFirst(tasks)
	return tasks, nil
}

// Get returns the task with the given id.
func (r *TaskRepository) Get(id string) (models.Task, error) {
	doc, err := r.store.Load()
	if err != nil {
		return models.Task{}, err
	}
	for _, t := range doc.Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, models.NewNotFound("task", id)
}

// Create appends a new pending task under the given list.
func (r *TaskRepository) Create(listID, title, timeHint string) (models.Task, error) {
	var created models.Task

	err := r.store.Update(func(doc *models.StorageDocument) error {
		if !hasList(doc, listID) {
			return models.NewNotFound("list", listID)
		}
		created = models.NewTask(uuid.NewString(), listID, strings.TrimSpace(title), strings.TrimSpace(timeHint))
		if err := models.ValidateStruct(created); err != nil {
			return fmt.Errorf("validate new task: %w", err)
		}
		doc.Tasks = append(doc.Tasks, created)
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return created, nil
}

// Update applies the non-nil fields of upd to the task; omitted fields keep
// their stored value.
func (r *TaskRepository) Update(id string, upd models.TaskUpdate) (models.Task, error) {
	var updated models.Task

	err := r.store.Update(func(doc *models.StorageDocument) error {
		idx := -1
		for i, t := range doc.Tasks {
			if t.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return models.NewNotFound("task", id)
		}

		task := doc.Tasks[idx]
		if upd.Title != nil {
			task.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Time != nil {
			task.Time = strings.TrimSpace(*upd.Time)
		}
		if upd.Completed != nil {
			task.Completed = *upd.Completed
		}
		task.UpdatedAt = time.Now().UTC()
		if err := models.ValidateStruct(task); err != nil {
			return fmt.Errorf("validate updated task: %w", err)
		}
		doc.Tasks[idx] = task
		updated = task
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// ToggleCompletion flips the completed flag.
func (r *TaskRepository) ToggleCompletion(id string) (models.Task, error) {
	var toggled models.Task

	err := r.store.Update(func(doc *models.StorageDocument) error {
		for i, t := range doc.Tasks {
			if t.ID == id {
				t.Completed = !t.Completed
				t.UpdatedAt = time.Now().UTC()
				doc.Tasks[i] = t
				toggled = t
				return nil
			}
		}
		return models.NewNotFound("task", id)
	})
	if err != nil {
		return models.Task{}, err
	}
	return toggled, nil
}

// Delete removes the task. It returns false (without error) when the id is
// unknown.
func (r *TaskRepository) Delete(id string) (bool, error) {
	err := r.store.Update(func(doc *models.StorageDocument) error {
		for i, t := range doc.Tasks {
			if t.ID == id {
				doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
				return nil
			}
		}
		return models.NewNotFound("task", id)
	})
	if models.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Search matches query as a case-insensitive substring of task titles,
// scoped to one list when listID is non-empty. Exact (case-insensitive)
// title matches sort first; within each group tasks stay newest first.
func (r *TaskRepository) Search(query, listID string) ([]models.Task, error) {
	doc, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	scope := doc.Tasks
	if listID != "" {
		if !hasList(doc, listID) {
			return nil, models.NewNotFound("list", listID)
		}
		scope = tasksOfList(doc.Tasks, listID)
	}

	q := strings.TrimSpace(query)
	needle := strings.ToLower(q)
	matches := make([]models.Task, 0)
	for _, t := range scope {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			matches = append(matches, t)
		}
	}

	slices.SortStableFunc(matches, func(a, b models.Task) int {
		aExact := strings.EqualFold(a.Title, q)
		bExact := strings.EqualFold(b.Title, q)
		if aExact != bExact {
			if aExact {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return matches, nil
}

// Stats aggregates completion figures, over one list when listID is
// non-empty, otherwise over every task.
func (r *TaskRepository) Stats(listID string) (models.ListStats, error) {
	doc, err := r.store.Load()
	if err != nil {
		return models.ListStats{}, err
	}
	if listID == "" {
		return computeStats(doc.Tasks), nil
	}
	if !hasList(doc, listID) {
		return models.ListStats{}, models.NewNotFound("list", listID)
	}
	return computeStats(tasksOfList(doc.Tasks, listID)), nil
}
