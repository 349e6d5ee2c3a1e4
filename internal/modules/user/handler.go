package user

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/stageside/merchtable-backend/internal/modules/media"
)

type Handler struct {
	service  Service
	uploader media.Uploader
}

func NewHandler(service Service, uploader media.Uploader) *Handler {
	return &Handler{service: service, uploader: uploader}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Post("/users/register", h.registerUser)
	router.Get("/users/{id}", h.getUser)
	router.Patch("/users/{id}", h.updateProfile)
	router.Post("/users/{id}/avatar", h.uploadAvatar)
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.service.RegisterUser(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(u)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	type request struct {
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), id, req.Name, req.AvatarURL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

// uploadAvatar stores the image and attaches its URL to the profile. A failed
// upload does not fail the request: the profile keeps an empty avatar URL and
// the client carries on without a picture.
func (h *Handler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	file, header, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, "avatar file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	avatarURL := ""
	path := fmt.Sprintf("avatars/%s/%s", id, header.Filename)
	url, err := h.uploader.Upload(r.Context(), path, header.Header.Get("Content-Type"), file)
	if err != nil {
		logrus.WithError(err).WithField("user_id", id).Warn("avatar upload failed, continuing without image")
	} else {
		avatarURL = url
	}

	u, err := h.service.UpdateProfile(r.Context(), id, "", avatarURL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}
