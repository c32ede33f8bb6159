package handler

import (
	"github.com/msomdec/run-tracker/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func toUserDTO(id int64, email string) UserDTO {
	return UserDTO{ID: id, Email: email}
}

// timestampLayout is ISO 8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// RunDTO is the JSON representation of a run.
type RunDTO struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"userId"`
	Date      string  `json:"date"`
	Distance  float64 `json:"distance"`
	Time      int     `json:"time"`
	Location  string  `json:"location"`
	Pace      string  `json:"pace"`
	Photo     *string `json:"photo"`
	CreatedAt string  `json:"createdAt"`
}

func toRunDTO(r *domain.Run) RunDTO {
	return RunDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		Date:      r.Date,
		Distance:  r.Distance,
		Time:      r.Time,
		Location:  r.Location,
		Pace:      r.Pace,
		Photo:     r.Photo,
		CreatedAt: r.CreatedAt.UTC().Format(timestampLayout),
	}
}

func toRunDTOs(runs []domain.Run) []RunDTO {
	dtos := make([]RunDTO, len(runs))
	for i := range runs {
		dtos[i] = toRunDTO(&runs[i])
	}
	return dtos
}

// StatsDTO is the JSON representation of a user's aggregate stats.
type StatsDTO struct {
	TotalRuns     int     `json:"totalRuns"`
	TotalDistance float64 `json:"totalDistance"`
	AveragePace   float64 `json:"averagePace"`
}

func toStatsDTO(s domain.RunStats) StatsDTO {
	return StatsDTO{
		TotalRuns:     s.TotalRuns,
		TotalDistance: s.TotalDistance,
		AveragePace:   s.AveragePace,
	}
}
