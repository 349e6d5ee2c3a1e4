package pos

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stageside/merchtable-backend/internal/modules/auth"
)

// Handler exposes POS HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/pos", func(r chi.Router) {
		r.Post("/sales", h.recordSale)
		r.Get("/sales/{id}", h.getSale)
		r.Get("/bands/{band_id}/sales", h.listSales)
		r.Put("/sales/{id}", h.updateSale)
		r.Delete("/sales/{id}", h.deleteSale)
	})
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sale, err := h.service.RecordSale(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, sale)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.GetSale(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.ListSales(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "band_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, sales)
}

// updateSale edits a past sale. Clearing every line means the sale no longer
// exists, so that case routes to delete rather than leaving an empty record.
func (h *Handler) updateSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if len(req.Items) == 0 {
		if err := h.service.DeleteSale(r.Context(), auth.UserID(r.Context()), id); err != nil {
			respondError(w, err)
			return
		}
		respond(w, http.StatusOK, map[string]string{"status": "deleted"})
		return
	}

	sale, err := h.service.UpdateSale(r.Context(), auth.UserID(r.Context()), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, sale)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSale(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
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
		strings.Contains(msg, "must") || strings.Contains(msg, "delete the sale"):
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": msg})
}
