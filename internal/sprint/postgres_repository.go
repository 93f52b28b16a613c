package sprint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sprintColumns = "id, name, description, start_at, end_at, team_id, created_at, updated_at"

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

func scanSprint(row pgx.Row) (*Sprint, error) {
	var s Sprint
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.StartAt, &s.EndAt, &s.TeamID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new sprint record.
func (r *PostgresRepository) Create(ctx context.Context, s *Sprint) error {
	query := `
		INSERT INTO sprints (name, description, start_at, end_at, team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, s.Name, s.Description, s.StartAt, s.EndAt, s.TeamID).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting sprint: %w", err)
	}

	return nil
}

// GetByID retrieves a single sprint by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Sprint, error) {
	query := fmt.Sprintf(`SELECT %s FROM sprints WHERE id = $1`, sprintColumns)

	s, err := scanSprint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSprintNotFound
		}
		return nil, fmt.Errorf("querying sprint: %w", err)
	}

	return s, nil
}

// ActiveForTeam retrieves the sprint whose window covers the given day for a
// team. Returns ErrNoActiveSprint when no window matches.
func (r *PostgresRepository) ActiveForTeam(ctx context.Context, teamID uuid.UUID, day time.Time) (*Sprint, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sprints
		WHERE team_id = $1 AND start_at <= $2::date AND end_at >= $2::date
		ORDER BY start_at DESC
		LIMIT 1`, sprintColumns)

	s, err := scanSprint(r.pool.QueryRow(ctx, query, teamID, day.UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveSprint
		}
		return nil, fmt.Errorf("querying active sprint: %w", err)
	}

	return s, nil
}

// ExistsOverlapping reports whether any sprint for the team overlaps the
// [startAt, endAt] window, boundaries included.
func (r *PostgresRepository) ExistsOverlapping(ctx context.Context, teamID uuid.UUID, startAt, endAt time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM sprints
			WHERE team_id = $1 AND start_at <= $3::date AND end_at >= $2::date
		)`, teamID, startAt.UTC(), endAt.UTC()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking sprint overlap: %w", err)
	}
	return exists, nil
}

// ListByTeam retrieves all sprints for a team, most recent window first.
func (r *PostgresRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Sprint, error) {
	query := fmt.Sprintf(`SELECT %s FROM sprints WHERE team_id = $1 ORDER BY start_at DESC`, sprintColumns)

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing sprints: %w", err)
	}
	defer rows.Close()

	var sprints []Sprint
	for rows.Next() {
		var s Sprint
		err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.StartAt, &s.EndAt, &s.TeamID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning sprint row: %w", err)
		}
		sprints = append(sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprint rows: %w", err)
	}

	if sprints == nil {
		sprints = []Sprint{}
	}

	return sprints, nil
}
