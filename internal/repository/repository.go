// Package repository implements the list and task operations on top of the
// document store. Every mutation is one load-mutate-save sequence executed
// inside the store's single-writer critical section; nothing is cached
// between calls.
package repository

import (
	"math"

	"github.com/charmbracelet/log"

	"checklist/models"
	"checklist/store"
)

// Repositories bundles the list and task repositories over one shared store.
// Construct it once and pass it to callers; there are no package-level
// singletons.
type Repositories struct {
	Lists *ListRepository
	Tasks *TaskRepository
}

// New wires both repositories over the given store.
func New(st store.DocumentStore, logger *log.Logger) *Repositories {
	if logger == nil {
		logger = log.Default()
	}
	lists := &ListRepository{store: st, logger: logger}
	tasks := &TaskRepository{store: st, logger: logger}
	return &Repositories{Lists: lists, Tasks: tasks}
}

// computeStats aggregates completion figures over a set of tasks. The rate
// is a percentage rounded to two decimal places, and zero when there are no
// tasks at all.
func computeStats(tasks []models.Task) models.ListStats {
	stats := models.ListStats{TotalTasks: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			stats.CompletedTasks++
		}
	}
	stats.PendingTasks = stats.TotalTasks - stats.CompletedTasks
	if stats.TotalTasks > 0 {
		rate := float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
		stats.CompletionRate = math.Round(rate*100) / 100
	}
	return stats
}

// tasksOfList filters tasks belonging to one list, preserving order.
func tasksOfList(tasks []models.Task, listID string) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range tasks {
		if t.ListID == listID {
			out = append(out, t)
		}
	}
	return out
}

// hasList reports whether the document contains a list with the given id.
func hasList(doc *models.StorageDocument, id string) bool {
	for _, l := range doc.TaskLists {
		if l.ID == id {
			return true
		}
	}
	return false
}
