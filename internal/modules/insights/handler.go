package insights

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stageside/merchtable-backend/internal/modules/auth"
)

// Handler exposes the insights HTTP endpoint.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/bands/{id}/recap", h.salesRecap)
}

func (h *Handler) salesRecap(w http.ResponseWriter, r *http.Request) {
	recap, err := h.service.SalesRecap(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		code := http.StatusInternalServerError
		if strings.Contains(err.Error(), "forbidden") {
			code = http.StatusForbidden
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recap)
}
