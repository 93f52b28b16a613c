package sprint

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSprintNotFound is returned when a sprint record is not found.
var ErrSprintNotFound = errors.New("sprint not found")

// ErrNoActiveSprint is returned when no sprint window covers the requested day
// for a team. The message is surfaced verbatim to API clients.
var ErrNoActiveSprint = errors.New("there is no sprint going")

// ErrOverlappingSprint is returned when a new sprint window would overlap an
// existing one for the same team.
var ErrOverlappingSprint = errors.New("sprint window overlaps an existing sprint")

// Repository provides operations on the sprints table.
type Repository interface {
	Create(ctx context.Context, sprint *Sprint) error
	GetByID(ctx context.Context, id uuid.UUID) (*Sprint, error)
	ActiveForTeam(ctx context.Context, teamID uuid.UUID, day time.Time) (*Sprint, error)
	ExistsOverlapping(ctx context.Context, teamID uuid.UUID, startAt, endAt time.Time) (bool, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Sprint, error)
}
