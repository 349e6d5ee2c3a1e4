package band

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stageside/merchtable-backend/internal/modules/auth"
)

// Handler exposes band HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/bands", func(r chi.Router) {
		r.Post("/", h.createBand)
		r.Get("/", h.listMyBands)
		r.Get("/{id}", h.getBand)
		r.Patch("/{id}", h.updateBand)
		r.Get("/{id}/members", h.listMembers)
		r.Patch("/{id}/members/{user_id}/role", h.changeMemberRole)
		r.Delete("/{id}/members/{user_id}", h.removeMember)
		r.Post("/{id}/requests", h.requestToJoin)
		r.Get("/{id}/requests", h.listRequests)
		r.Post("/requests/{request_id}/approve", h.approveRequest)
		r.Post("/requests/{request_id}/reject", h.rejectRequest)
	})
}

func (h *Handler) createBand(w http.ResponseWriter, r *http.Request) {
	var req UpsertBandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.service.CreateBand(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, b)
}

func (h *Handler) listMyBands(w http.ResponseWriter, r *http.Request) {
	bands, err := h.service.ListBandsForUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, bands)
}

func (h *Handler) getBand(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetBand(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, b)
}

func (h *Handler) updateBand(w http.ResponseWriter, r *http.Request) {
	var req UpsertBandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.service.UpdateBand(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, b)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, members)
}

func (h *Handler) changeMemberRole(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Role string `json:"role"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	err = h.service.ChangeMemberRole(r.Context(), auth.UserID(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "user_id"), role)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveMember(r.Context(), auth.UserID(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "user_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) requestToJoin(w http.ResponseWriter, r *http.Request) {
	req, err := h.service.RequestToJoin(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, req)
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.service.ListRequests(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, reqs)
}

func (h *Handler) approveRequest(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.ApproveRequest(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "request_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, m)
}

func (h *Handler) rejectRequest(w http.ResponseWriter, r *http.Request) {
	err := h.service.RejectRequest(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "request_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "rejected"})
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
		strings.Contains(msg, "already") || strings.Contains(msg, "cannot"):
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": msg})
}
