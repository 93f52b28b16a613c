package sprint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidWindow is returned when a sprint window ends before it starts.
var ErrInvalidWindow = errors.New("sprint end date must not be before its start date")

// Service resolves sprint windows and creates sprints.
type Service struct {
	repo Repository
	// overlapCheck gates the creation-time overlap rejection. The upstream
	// system ships with the check disabled while still supporting overlap
	// detection in the repository; both paths are kept selectable.
	overlapCheck bool
	now          func() time.Time
}

// NewService creates a sprint Service. overlapCheck enables rejection of
// overlapping sprint windows at creation time.
func NewService(repo Repository, overlapCheck bool) *Service {
	return &Service{
		repo:         repo,
		overlapCheck: overlapCheck,
		now:          time.Now,
	}
}

// ActiveSprint resolves the sprint active today for the given team. Returns
// ErrNoActiveSprint when no sprint window covers today.
func (s *Service) ActiveSprint(ctx context.Context, teamID uuid.UUID) (*Sprint, error) {
	return s.repo.ActiveForTeam(ctx, teamID, s.now())
}

// CreateParams holds the inputs for creating a sprint.
type CreateParams struct {
	Name        string
	Description *string
	StartAt     time.Time
	EndAt       time.Time
	TeamID      uuid.UUID
}

// Create validates the window and inserts a new sprint. When the overlap
// check is enabled, a window intersecting an existing sprint for the same
// team is rejected with ErrOverlappingSprint.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Sprint, error) {
	name := strings.TrimSpace(p.Name)
	start := truncateToDate(p.StartAt)
	end := truncateToDate(p.EndAt)

	if end.Before(start) {
		return nil, ErrInvalidWindow
	}

	if s.overlapCheck {
		overlaps, err := s.repo.ExistsOverlapping(ctx, p.TeamID, start, end)
		if err != nil {
			return nil, fmt.Errorf("checking overlapping sprints: %w", err)
		}
		if overlaps {
			return nil, ErrOverlappingSprint
		}
	}

	sp := &Sprint{
		Name:        name,
		Description: p.Description,
		StartAt:     start,
		EndAt:       end,
		TeamID:      p.TeamID,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, err
	}

	return sp, nil
}
