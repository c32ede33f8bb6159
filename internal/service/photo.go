package service

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/run-tracker/internal/domain"
)

const (
	// DefaultMaxPhotoSize caps a single uploaded photo.
	DefaultMaxPhotoSize = 5 << 20 // 5MB

	// PhotoURLPrefix is the public path under which stored photos are served.
	PhotoURLPrefix = "/uploads/"
)

var imageExtensions = map[string]string{
	"image/jpeg":   ".jpg",
	"image/png":    ".png",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
}

// PhotoUpload is a photo received with a run submission.
type PhotoUpload struct {
	Filename string
	Data     []byte
}

// PhotoService validates, stores, serves and removes run photos.
type PhotoService struct {
	store   domain.PhotoStore
	maxSize int64
}

// NewPhotoService creates a new PhotoService. A non-positive maxSize uses DefaultMaxPhotoSize.
func NewPhotoService(store domain.PhotoStore, maxSize int64) *PhotoService {
	if maxSize <= 0 {
		maxSize = DefaultMaxPhotoSize
	}
	return &PhotoService{store: store, maxSize: maxSize}
}

// MaxSize reports the per-photo byte limit.
func (s *PhotoService) MaxSize() int64 {
	return s.maxSize
}

// Save checks the upload and stores it. It returns the public reference
// ("/uploads/<key>") to record on the run.
func (s *PhotoService) Save(ctx context.Context, upload PhotoUpload) (string, error) {
	if int64(len(upload.Data)) > s.maxSize {
		return "", fmt.Errorf("%w: photo exceeds the %d byte limit", domain.ErrUploadTooLarge, s.maxSize)
	}

	// Sniff the bytes instead of trusting the multipart header.
	contentType := http.DetectContentType(upload.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: only images are allowed", domain.ErrUnsupportedFileType)
	}

	ext, ok := imageExtensions[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(upload.Filename))
	}
	key := "photo-" + uuid.NewString() + ext

	if err := s.store.Save(ctx, key, contentType, upload.Data); err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}
	return PhotoURLPrefix + key, nil
}

// Open returns the bytes and content type stored under key.
func (s *PhotoService) Open(ctx context.Context, key string) ([]byte, string, error) {
	return s.store.Open(ctx, key)
}

// Delete removes the photo a run refers to. References that do not point at
// this service's URL prefix are ignored.
func (s *PhotoService) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, PhotoURLPrefix)
	if !ok || key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}
