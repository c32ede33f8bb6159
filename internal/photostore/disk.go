// Package photostore implements domain.PhotoStore on local disk and on
// S3-compatible object storage.
package photostore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/msomdec/run-tracker/internal/domain"
)

// Disk stores photos as flat files inside a single directory.
type Disk struct {
	dir string
}

// NewDisk returns a Disk store rooted at dir, creating the directory if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) Save(ctx context.Context, key, contentType string, data []byte) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write photo: %w", err)
	}
	return nil
}

func (d *Disk) Open(ctx context.Context, key string) ([]byte, string, error) {
	path, err := d.path(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("read photo: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

func (d *Disk) Delete(ctx context.Context, key string) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove photo: %w", err)
	}
	return nil
}

// path resolves key inside the store directory. Keys are single path
// elements; anything that could escape the directory is treated as missing.
func (d *Disk) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", domain.ErrNotFound
	}
	return filepath.Join(d.dir, key), nil
}
