package server

// createListRequest is the payload for POST /api/lists.
type createListRequest struct {
	Name string `json:"name"`
}

// updateListRequest is the payload for PUT /api/lists/{id}.
type updateListRequest struct {
	Name *string `json:"name"`
}

// createTaskRequest is the payload for POST /api/lists/{id}/tasks.
type createTaskRequest struct {
	Title string `json:"title"`
	Time  string `json:"time"`
}

// updateTaskRequest is the payload for PATCH /api/tasks/{id}. Absent fields
// keep their stored value.
type updateTaskRequest struct {
	Title     *string `json:"title"`
	Time      *string `json:"time"`
	Completed *bool   `json:"completed"`
}

// backupResponse is the payload for POST /api/backup.
type backupResponse struct {
	Created bool   `json:"created"`
	Path    string `json:"path,omitempty"`
}

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Error string `json:"error"`
}
