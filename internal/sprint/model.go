package sprint

import (
	"time"

	"github.com/google/uuid"
)

// Sprint represents a row in the sprints table. StartAt and EndAt carry
// date precision only.
type Sprint struct {
	ID          uuid.UUID
	Name        string
	Description *string
	StartAt     time.Time
	EndAt       time.Time
	TeamID      uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActiveOn reports whether the given day falls inside the sprint window,
// boundaries included. Only the date component of day is considered.
func (s *Sprint) IsActiveOn(day time.Time) bool {
	d := truncateToDate(day)
	return !d.Before(truncateToDate(s.StartAt)) && !d.After(truncateToDate(s.EndAt))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
