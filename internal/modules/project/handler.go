package project

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stageside/merchtable-backend/internal/modules/auth"
)

// Handler exposes project HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/projects", func(r chi.Router) {
		r.Post("/", h.createProject)
		r.Get("/bands/{band_id}", h.listProjects)
		r.Get("/{id}", h.getProject)
		r.Patch("/{id}/status", h.setStatus)
		r.Delete("/{id}", h.deleteProject)

		r.Post("/{id}/tasks", h.addTask)
		r.Get("/{id}/tasks", h.listTasks)
		r.Put("/tasks/{task_id}", h.updateTask)
		r.Post("/tasks/{task_id}/toggle", h.toggleTask)
		r.Delete("/tasks/{task_id}", h.deleteTask)
		r.Post("/{id}/tasks/move", h.moveTask)
		r.Put("/{id}/tasks/order", h.reorderTasks)

		r.Post("/{id}/comments", h.addComment)
		r.Get("/{id}/comments", h.listComments)
		r.Delete("/comments/{comment_id}", h.deleteComment)
	})
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProject(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "band_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, projects)
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProject(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Status string `json:"status"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.SetStatus(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"),
		Status(strings.ToUpper(req.Status)))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProject(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) addTask(w http.ResponseWriter, r *http.Request) {
	var req UpsertTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.AddTask(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, t)
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, tasks)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var req UpsertTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.UpdateTask(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "task_id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) toggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.ToggleTask(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "task_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTask(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "task_id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) moveTask(w http.ResponseWriter, r *http.Request) {
	type request struct {
		DragID   string `json:"drag_id"`
		TargetID string `json:"target_id"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	tasks, err := h.service.MoveTask(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"),
		req.DragID, req.TargetID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, tasks)
}

func (h *Handler) reorderTasks(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Order []string `json:"order"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	tasks, err := h.service.ReorderTasks(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), req.Order)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, tasks)
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Body string `json:"body"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.AddComment(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), req.Body)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, comments)
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteComment(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "comment_id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	msg := err.Error()
	code := http.StatusInternalServerError
	switch {
	case strings.Contains(msg, "forbidden"):
		code = http.StatusForbidden
	case strings.Contains(msg, "not found"):
		code = http.StatusNotFound
	case strings.Contains(msg, "required") || strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "unknown") || strings.Contains(msg, "must"):
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": msg})
}
