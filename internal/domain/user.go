package domain

import (
	"context"
	"time"
)

// User represents an account that can log in and own runs.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the authenticated caller, as embedded in a verified token.
type Identity struct {
	UserID int64
	Email  string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
