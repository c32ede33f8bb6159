package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/msomdec/run-tracker/internal/domain"
)

// RunRepository implements domain.RunRepository in memory.
// IDs come from a counter that only moves forward, so an ID freed by Delete
// is never handed out again.
type RunRepository struct {
	mu     sync.RWMutex
	runs   []domain.Run
	nextID int64
}

// NewRunRepository creates an empty RunRepository.
func NewRunRepository() *RunRepository {
	return &RunRepository{nextID: 1}
}

func (r *RunRepository) Create(ctx context.Context, run *domain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run.ID = r.nextID
	r.nextID++
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	r.runs = append(r.runs, cloneRun(*run))
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id int64) (*domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, run := range r.runs {
		if run.ID == id {
			found := cloneRun(run)
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *RunRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var runs []domain.Run
	for _, run := range r.runs {
		if run.UserID == userID {
			runs = append(runs, cloneRun(run))
		}
	}

	slices.SortStableFunc(runs, func(a, b domain.Run) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return runs, nil
}

func (r *RunRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.runs, func(run domain.Run) bool { return run.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	r.runs = slices.Delete(r.runs, i, i+1)
	return nil
}

// cloneRun copies the run so callers cannot mutate stored state through Photo.
func cloneRun(run domain.Run) domain.Run {
	if run.Photo != nil {
		photo := *run.Photo
		run.Photo = &photo
	}
	return run
}
