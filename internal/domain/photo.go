package domain

import "context"

// PhotoStore abstracts raw photo byte storage keyed by an opaque name.
// Implementations exist for local disk and S3-compatible object storage.
type PhotoStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) error
	// Open returns the stored bytes and their content type.
	Open(ctx context.Context, key string) ([]byte, string, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
