package domain

import (
	"context"
	"time"
)

// RunDateLayout is the display format of Run.Date (day.month.year).
const RunDateLayout = "02.01.2006"

// Run is one recorded activity. Pace is derived from Time and Distance when
// the run is created and never edited independently.
type Run struct {
	ID        int64
	UserID    int64
	Date      string
	Distance  float64 // kilometers
	Time      int     // minutes
	Location  string
	Pace      string  // minutes per kilometer, two decimals
	Photo     *string // public reference such as "/uploads/photo-<uuid>.jpg"
	CreatedAt time.Time
}

// RunStats aggregates a user's runs.
type RunStats struct {
	TotalRuns     int
	TotalDistance float64
	AveragePace   float64
}

// RunRepository defines persistence operations for runs.
// Implementations must never hand out an ID twice within their lifetime.
type RunRepository interface {
	Create(ctx context.Context, run *Run) error
	GetByID(ctx context.Context, id int64) (*Run, error)
	// ListByUser returns the user's runs, most recently created first.
	ListByUser(ctx context.Context, userID int64) ([]Run, error)
	Delete(ctx context.Context, id int64) error
}
