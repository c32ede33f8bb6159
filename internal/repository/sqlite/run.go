package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/run-tracker/internal/domain"
)

// runRepo implements domain.RunRepository using SQLite.
// The runs table uses AUTOINCREMENT so deleted IDs are never reissued.
type runRepo struct {
	db *sql.DB
}

const runColumns = `id, user_id, date, distance, time_minutes, location, pace, photo, created_at`

func (r *runRepo) Create(ctx context.Context, run *domain.Run) error {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var photo sql.NullString
	if run.Photo != nil {
		photo = sql.NullString{String: *run.Photo, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (user_id, date, distance, time_minutes, location, pace, photo, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.UserID, run.Date, run.Distance, run.Time, run.Location, run.Pace, photo, createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	run.ID = id
	run.CreatedAt = createdAt
	return nil
}

func (r *runRepo) GetByID(ctx context.Context, id int64) (*domain.Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

func (r *runRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Run, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (r *runRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*domain.Run, error) {
	var (
		run   domain.Run
		photo sql.NullString
	)
	if err := s.Scan(&run.ID, &run.UserID, &run.Date, &run.Distance, &run.Time,
		&run.Location, &run.Pace, &photo, &run.CreatedAt); err != nil {
		return nil, err
	}
	if photo.Valid {
		run.Photo = &photo.String
	}
	return &run, nil
}
