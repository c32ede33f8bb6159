package domain

import "context"

// Database defines lifecycle operations for a persistent backend.
// The in-memory store has no lifecycle and does not implement it.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
