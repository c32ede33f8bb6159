package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/msomdec/run-tracker/internal/domain"
	"github.com/msomdec/run-tracker/internal/observability"
	"github.com/msomdec/run-tracker/internal/validation"
)

// CreateRunInput carries the raw form values of a run submission.
type CreateRunInput struct {
	Distance string
	Time     string
	Location string
	Photo    *PhotoUpload
}

type runFields struct {
	Distance float64 `json:"distance" validate:"gt=0,lte=10000"`
	Time     int     `json:"time" validate:"gt=0"`
	Location string  `json:"location" validate:"required"`
}

// RunService handles run creation, retrieval and deletion, scoped by owner.
type RunService struct {
	runs   domain.RunRepository
	photos *PhotoService
	now    func() time.Time
}

// NewRunService creates a new RunService.
func NewRunService(runs domain.RunRepository, photos *PhotoService) *RunService {
	return &RunService{runs: runs, photos: photos, now: time.Now}
}

// ComputePace returns minutes per kilometer formatted with two decimals.
// Halves round up, so 1 minute over 8 km is "0.13".
func ComputePace(distance float64, minutes int) string {
	return strconv.FormatFloat(roundTo(float64(minutes)/distance, 2), 'f', 2, 64)
}

// Create validates the submission, stores the optional photo and records the
// run for ownerID. Nothing is left behind when any step fails.
func (s *RunService) Create(ctx context.Context, ownerID int64, in CreateRunInput) (*domain.Run, error) {
	fields, err := parseRunFields(in)
	if err != nil {
		return nil, err
	}

	var photo *string
	if in.Photo != nil {
		ref, err := s.photos.Save(ctx, *in.Photo)
		if err != nil {
			return nil, err
		}
		photo = &ref
	}

	now := s.now()
	run := &domain.Run{
		UserID:    ownerID,
		Date:      now.Format(domain.RunDateLayout),
		Distance:  fields.Distance,
		Time:      fields.Time,
		Location:  fields.Location,
		Pace:      ComputePace(fields.Distance, fields.Time),
		Photo:     photo,
		CreatedAt: now.UTC(),
	}

	if err := s.runs.Create(ctx, run); err != nil {
		if photo != nil {
			if derr := s.photos.Delete(ctx, *photo); derr != nil {
				slog.Warn("remove photo after failed create", "photo", *photo, "error", derr)
			}
		}
		return nil, fmt.Errorf("create run: %w", err)
	}

	observability.RecordRunCreated(run.Distance)
	return run, nil
}

// List returns the owner's runs, most recent first.
func (s *RunService) List(ctx context.Context, ownerID int64) ([]domain.Run, error) {
	runs, err := s.runs.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns a run owned by ownerID. Runs of other users are reported as
// domain.ErrNotFound so their existence is not revealed.
func (s *RunService) Get(ctx context.Context, ownerID, id int64) (*domain.Run, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	return run, nil
}

// Delete removes a run owned by ownerID together with its photo.
func (s *RunService) Delete(ctx context.Context, ownerID, id int64) error {
	run, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.runs.Delete(ctx, run.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete run: %w", err)
	}

	if run.Photo != nil {
		if err := s.photos.Delete(ctx, *run.Photo); err != nil {
			slog.Warn("remove run photo", "run_id", run.ID, "photo", *run.Photo, "error", err)
		}
	}

	observability.RecordRunDeleted()
	return nil
}

func parseRunFields(in CreateRunInput) (runFields, error) {
	distanceRaw := strings.TrimSpace(in.Distance)
	timeRaw := strings.TrimSpace(in.Time)
	if distanceRaw == "" || timeRaw == "" {
		return runFields{}, fmt.Errorf("%w: distance and time are required", domain.ErrInvalidInput)
	}

	distance, err := strconv.ParseFloat(distanceRaw, 64)
	if err != nil || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return runFields{}, fmt.Errorf("%w: distance must be a number", domain.ErrInvalidInput)
	}

	minutes, err := strconv.Atoi(timeRaw)
	if err != nil {
		return runFields{}, fmt.Errorf("%w: time must be a whole number of minutes", domain.ErrInvalidInput)
	}

	fields := runFields{
		Distance: distance,
		Time:     minutes,
		Location: strings.TrimSpace(in.Location),
	}
	if err := validation.Struct(fields); err != nil {
		return runFields{}, err
	}
	if pace := float64(minutes) / distance; math.IsInf(pace, 0) || math.IsNaN(pace) {
		return runFields{}, fmt.Errorf("%w: distance is too small", domain.ErrInvalidInput)
	}
	return fields, nil
}
