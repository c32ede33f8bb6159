package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/run-tracker/internal/domain"
)

// photoStore implements domain.PhotoStore using SQLite BLOBs.
type photoStore struct {
	db *sql.DB
}

func (s *photoStore) Save(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO photo_blobs (storage_key, content_type, data) VALUES (?, ?, ?)",
		key, contentType, data,
	)
	if err != nil {
		return fmt.Errorf("save photo blob: %w", err)
	}
	return nil
}

func (s *photoStore) Open(ctx context.Context, key string) ([]byte, string, error) {
	var (
		data        []byte
		contentType string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT data, content_type FROM photo_blobs WHERE storage_key = ?", key,
	).Scan(&data, &contentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get photo blob: %w", err)
	}
	return data, contentType, nil
}

func (s *photoStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM photo_blobs WHERE storage_key = ?", key,
	)
	if err != nil {
		return fmt.Errorf("delete photo blob: %w", err)
	}
	return nil
}
