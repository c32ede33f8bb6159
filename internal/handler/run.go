package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/msomdec/run-tracker/internal/domain"
	"github.com/msomdec/run-tracker/internal/service"
)

// formOverhead is the allowance for non-file multipart fields and boundaries.
const formOverhead = 1 << 20

// RunHandler handles run CRUD requests.
type RunHandler struct {
	runs   *service.RunService
	photos *service.PhotoService
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runs *service.RunService, photos *service.PhotoService) *RunHandler {
	return &RunHandler{runs: runs, photos: photos}
}

// HandleList returns the caller's runs, newest first.
// GET /runs
func (h *RunHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	runs, err := h.runs.List(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err, "list runs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"runs":    toRunDTOs(runs),
	})
}

// HandleCreate records a run from a multipart form with fields distance,
// time, location and an optional photo file.
// POST /runs
func (h *RunHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.photos.MaxSize()+formOverhead)
	if err := parseForm(r); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeServiceError(w, fmt.Errorf("%w: request exceeds %d bytes", domain.ErrUploadTooLarge, maxErr.Limit), "parse run form")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	if r.MultipartForm != nil {
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				slog.Warn("remove multipart temp files", "error", err)
			}
		}()
	}

	photo, err := h.readPhoto(r)
	if err != nil {
		writeServiceError(w, err, "read photo")
		return
	}

	run, err := h.runs.Create(r.Context(), identity.UserID, service.CreateRunInput{
		Distance: r.PostFormValue("distance"),
		Time:     r.PostFormValue("time"),
		Location: r.PostFormValue("location"),
		Photo:    photo,
	})
	if err != nil {
		writeServiceError(w, err, "create run")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"run":     toRunDTO(run),
	})
}

// HandleGet returns one of the caller's runs.
// GET /runs/{id}
func (h *RunHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	id, ok := runID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	run, err := h.runs.Get(r.Context(), identity.UserID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeServiceError(w, err, "get run")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"run":     toRunDTO(run),
	})
}

// HandleDelete deletes one of the caller's runs and its photo.
// DELETE /runs/{id}
func (h *RunHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	id, ok := runID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	if err := h.runs.Delete(r.Context(), identity.UserID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeServiceError(w, err, "delete run")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "run deleted",
	})
}

// readPhoto returns the optional "photo" file part, or nil when absent.
func (h *RunHandler) readPhoto(r *http.Request) (*service.PhotoUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("open photo part: %w", err)
	}
	defer file.Close()

	if header.Size > h.photos.MaxSize() {
		return nil, fmt.Errorf("%w: photo exceeds the %d byte limit", domain.ErrUploadTooLarge, h.photos.MaxSize())
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read photo part: %w", err)
	}
	return &service.PhotoUpload{Filename: header.Filename, Data: data}, nil
}

// parseForm accepts multipart and URL-encoded bodies.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return r.ParseMultipartForm(formOverhead)
	}
	return r.ParseForm()
}

// runID parses the {id} path value. Anything that is not a positive
// integer cannot name a run.
func runID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
