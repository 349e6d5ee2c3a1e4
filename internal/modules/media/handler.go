package media

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadBytes = 8 << 20 // 8 MiB

// Handler exposes the media upload endpoint used for item and band images.
type Handler struct{ uploader Uploader }

func NewHandler(uploader Uploader) *Handler { return &Handler{uploader: uploader} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/media", h.upload)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path := fmt.Sprintf("uploads/%s/%s-%s",
		time.Now().UTC().Format("2006/01"), uuid.New().String()[:8], header.Filename)
	url, err := h.uploader.Upload(r.Context(), path, header.Header.Get("Content-Type"), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
