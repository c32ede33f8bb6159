package service

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/msomdec/run-tracker/internal/domain"
)

// StatsService aggregates a user's runs.
type StatsService struct {
	runs domain.RunRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(runs domain.RunRepository) *StatsService {
	return &StatsService{runs: runs}
}

// Compute returns the owner's run count, total distance and average pace.
func (s *StatsService) Compute(ctx context.Context, ownerID int64) (domain.RunStats, error) {
	runs, err := s.runs.ListByUser(ctx, ownerID)
	if err != nil {
		return domain.RunStats{}, fmt.Errorf("list runs: %w", err)
	}
	return Summarize(runs), nil
}

// Summarize computes stats over runs: total distance rounded to one decimal
// and the mean of the per-run paces rounded to two. No runs yields zeros.
func Summarize(runs []domain.Run) domain.RunStats {
	if len(runs) == 0 {
		return domain.RunStats{}
	}

	// The pace mean is kept as a running average so large paces cannot
	// overflow a sum.
	var distance, pace float64
	for i, r := range runs {
		distance += r.Distance
		p, err := strconv.ParseFloat(r.Pace, 64)
		if err != nil {
			p = float64(r.Time) / r.Distance
		}
		pace += (p - pace) / float64(i+1)
	}

	return domain.RunStats{
		TotalRuns:     len(runs),
		TotalDistance: finite(roundTo(distance, 1)),
		AveragePace:   finite(roundTo(pace, 2)),
	}
}

// roundTo rounds v to places decimals, halves away from zero. Values too
// large to scale are already whole and come back unchanged.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	if r := math.Round(v*scale) / scale; !math.IsInf(r, 0) {
		return r
	}
	return v
}

// finite maps NaN and infinities, which JSON cannot carry, to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
