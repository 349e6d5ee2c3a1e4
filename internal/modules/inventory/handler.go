package inventory

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stageside/merchtable-backend/internal/modules/auth"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Post("/items", h.createItem)
		r.Get("/bands/{band_id}/items", h.listItems)
		r.Get("/items/{item_id}", h.getItem)
		r.Put("/items/{item_id}", h.updateItem)
		r.Delete("/items/{item_id}", h.deleteItem)
		r.Post("/items/{item_id}/stock", h.adjustStock)
	})
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req UpsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	item, err := h.service.CreateItem(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, item)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "band_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "item_id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req UpsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	item, err := h.service.UpdateItem(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "item_id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "item_id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Label string `json:"label"`
		Delta int    `json:"delta"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	item, err := h.service.AdjustStock(r.Context(), auth.UserID(r.Context()),
		chi.URLParam(r, "item_id"), req.Label, req.Delta)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, item)
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
		strings.Contains(msg, "duplicate") || strings.Contains(msg, "negative"):
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": msg})
}
