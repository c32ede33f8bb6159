package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/msomdec/run-tracker/internal/domain"
	"github.com/msomdec/run-tracker/internal/service"
)

// PhotoHandler serves stored run photos.
type PhotoHandler struct {
	photos *service.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photos *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// HandleServe serves photo bytes with their detected Content-Type.
// GET /uploads/{key}
func (h *PhotoHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	data, contentType, err := h.photos.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		writeServiceError(w, err, "serve photo")
		return
	}

	w.Header().Set("Content-Type", contentType)
	// Keys are random and never rewritten.
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	http.ServeContent(w, r, key, time.Time{}, bytes.NewReader(data))
}
