package feeling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new feeling record.
func (r *PostgresRepository) Create(ctx context.Context, f *Feeling) error {
	query := `
		INSERT INTO feelings (name)
		VALUES ($1)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, f.Name).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateFeelingName
		}
		return fmt.Errorf("inserting feeling: %w", err)
	}

	return nil
}

// GetByID retrieves a single feeling by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Feeling, error) {
	query := `SELECT id, name, created_at FROM feelings WHERE id = $1`

	var f Feeling
	err := r.pool.QueryRow(ctx, query, id).Scan(&f.ID, &f.Name, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeelingNotFound
		}
		return nil, fmt.Errorf("querying feeling: %w", err)
	}

	return &f, nil
}

// List retrieves all feelings ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Feeling, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM feelings ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing feelings: %w", err)
	}
	defer rows.Close()

	var feelings []Feeling
	for rows.Next() {
		var f Feeling
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feeling row: %w", err)
		}
		feelings = append(feelings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feeling rows: %w", err)
	}

	if feelings == nil {
		feelings = []Feeling{}
	}

	return feelings, nil
}
