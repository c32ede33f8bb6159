package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/run-tracker/internal/domain"
)

// SeedOptions describes the demo account created at startup.
type SeedOptions struct {
	Email    string
	Password string
	DemoRuns bool
}

var demoRuns = []struct {
	distance float64
	minutes  int
	location string
	at       time.Time
}{
	{5.2, 28, "Шымкент", time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)},
	{3.5, 20, "Астана", time.Date(2024, time.July, 18, 0, 0, 0, 0, time.UTC)},
}

// Seed creates the demo user and, optionally, two demo runs. It does nothing
// if the user already exists, so it is safe against persistent stores.
func Seed(ctx context.Context, auth *AuthService, users domain.UserRepository, runs domain.RunRepository, opts SeedOptions) error {
	if _, err := users.GetByEmail(ctx, opts.Email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("look up seed user: %w", err)
	}

	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return err
	}

	user := &domain.User{Email: opts.Email, PasswordHash: hash}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("create seed user: %w", err)
	}

	if !opts.DemoRuns {
		return nil
	}
	for _, d := range demoRuns {
		run := &domain.Run{
			UserID:    user.ID,
			Date:      d.at.Format(domain.RunDateLayout),
			Distance:  d.distance,
			Time:      d.minutes,
			Location:  d.location,
			Pace:      ComputePace(d.distance, d.minutes),
			CreatedAt: d.at,
		}
		if err := runs.Create(ctx, run); err != nil {
			return fmt.Errorf("create seed run: %w", err)
		}
	}
	return nil
}
