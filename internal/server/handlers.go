package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"checklist/models"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeRepoError maps the domain error taxonomy onto HTTP statuses.
func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case models.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case models.IsDuplicateName(err):
		writeError(w, http.StatusConflict, err.Error())
	case models.IsStorageWrite(err):
		s.logger.Error("storage write failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not persist changes")
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// validName checks the field shape before it reaches the repository.
func validName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && len(trimmed) <= 255
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.store.IsAccessible() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	path, err := s.store.BackupNow()
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, backupResponse{Created: path != "", Path: path})
}

func (s *Server) handleListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.repos.Lists.ListAll()
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validName(req.Name) {
		writeError(w, http.StatusBadRequest, "name is required and must be at most 255 characters")
		return
	}

	list, err := s.repos.Lists.Create(req.Name)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	list, err := s.repos.Lists.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name != nil && !validName(*req.Name) {
		writeError(w, http.StatusBadRequest, "name must be non-empty and at most 255 characters")
		return
	}

	list, err := s.repos.Lists.Update(chi.URLParam(r, "id"), models.ListUpdate{Name: req.Name})
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := s.repos.Lists.Delete(id)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repos.Lists.Stats(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repos.Tasks.ListByListID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validName(req.Title) {
		writeError(w, http.StatusBadRequest, "title is required and must be at most 255 characters")
		return
	}
	if len(req.Time) > 255 {
		writeError(w, http.StatusBadRequest, "time must be at most 255 characters")
		return
	}

	task, err := s.repos.Tasks.Create(chi.URLParam(r, "id"), req.Title, req.Time)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repos.Tasks.ListAll()
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleSearchTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	tasks, err := s.repos.Tasks.Search(query, r.URL.Query().Get("listId"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repos.Tasks.Stats(r.URL.Query().Get("listId"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.repos.Tasks.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title != nil && !validName(*req.Title) {
		writeError(w, http.StatusBadRequest, "title must be non-empty and at most 255 characters")
		return
	}
	if req.Time != nil && len(*req.Time) > 255 {
		writeError(w, http.StatusBadRequest, "time must be at most 255 characters")
		return
	}

	upd := models.TaskUpdate{Title: req.Title, Time: req.Time, Completed: req.Completed}
	task, err := s.repos.Tasks.Update(chi.URLParam(r, "id"), upd)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.repos.Tasks.Delete(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.repos.Tasks.ToggleCompletion(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
