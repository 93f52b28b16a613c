package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const feedbackColumns = `f.id, f.author_id, f.recipient_id, f.type, f.category, f.content,
		f.is_anonymous, f.status, f.reviewed_by, f.reviewed_at, f.review_notes,
		f.team_id, f.sprint_id, f.feeling_id, f.version, f.created_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

type feedbackRow struct {
	id          uuid.UUID
	authorID    uuid.UUID
	recipientID uuid.UUID
	typ         Type
	category    Category
	content     string
	isAnonymous bool
	status      Status
	reviewedBy  *uuid.UUID
	reviewedAt  *time.Time
	reviewNotes *string
	teamID      uuid.UUID
	sprintID    *uuid.UUID
	feelingID   *uuid.UUID
	version     int
	createdAt   time.Time
}

func (row *feedbackRow) fields() []any {
	return []any{
		&row.id, &row.authorID, &row.recipientID, &row.typ, &row.category, &row.content,
		&row.isAnonymous, &row.status, &row.reviewedBy, &row.reviewedAt, &row.reviewNotes,
		&row.teamID, &row.sprintID, &row.feelingID, &row.version, &row.createdAt,
	}
}

func (row *feedbackRow) entity() *Feedback {
	var review *Review
	if row.status != StatusPending && row.reviewedBy != nil && row.reviewedAt != nil {
		review = &Review{
			ReviewerID: *row.reviewedBy,
			Notes:      row.reviewNotes,
			At:         *row.reviewedAt,
		}
	}

	return Reconstitute(ReconstituteParams{
		ID:          row.id,
		AuthorID:    row.authorID,
		RecipientID: row.recipientID,
		Type:        row.typ,
		Category:    row.category,
		Content:     row.content,
		IsAnonymous: row.isAnonymous,
		Status:      row.status,
		Review:      review,
		TeamID:      row.teamID,
		SprintID:    row.sprintID,
		FeelingID:   row.feelingID,
		CreatedAt:   row.createdAt,
		Version:     row.version,
	})
}

// Create inserts a new pending feedback record.
func (r *PostgresRepository) Create(ctx context.Context, f *Feedback) error {
	query := `
		INSERT INTO feedback (author_id, recipient_id, type, category, content,
			is_anonymous, status, team_id, sprint_id, feeling_id, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		f.AuthorID, f.RecipientID, f.Type, f.Category, f.Content,
		f.IsAnonymous, f.Status(), f.TeamID, f.SprintID, f.FeelingID, f.Version,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}

	return nil
}

// GetByID retrieves a single feedback item by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM feedback f WHERE f.id = $1`, feedbackColumns)

	var row feedbackRow
	err := r.pool.QueryRow(ctx, query, id).Scan(row.fields()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("querying feedback: %w", err)
	}

	return row.entity(), nil
}

// UpdateReview persists a review transition with a compare-and-swap on the
// version column. Zero rows affected means the row is gone or no longer
// pending at the expected version; the caller sees ErrNotPending either way.
func (r *PostgresRepository) UpdateReview(ctx context.Context, f *Feedback) error {
	review := f.Review()
	if review == nil {
		return fmt.Errorf("updating review: feedback %s has no review outcome", f.ID)
	}

	query := `
		UPDATE feedback
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_notes = $4,
		    version = version + 1
		WHERE id = $5 AND version = $6 AND status = $7`

	result, err := r.pool.Exec(ctx, query,
		f.Status(), review.ReviewerID, review.At, review.Notes,
		f.ID, f.Version, StatusPending,
	)
	if err != nil {
		return fmt.Errorf("updating feedback review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotPending
	}

	f.Version++
	return nil
}

// SentByAuthor retrieves a paginated list of feedback written by the author.
func (r *PostgresRepository) SentByAuthor(ctx context.Context, authorID uuid.UUID, filter ListFilter) (*ListResult, error) {
	conditions := []string{"f.author_id = $1"}
	args := []any{authorID}
	if filter.Status != nil {
		conditions = append(conditions, "f.status = $2")
		args = append(args, *filter.Status)
	}
	return r.list(ctx, conditions, args, filter.Page, filter.Limit)
}

// ReceivedByUser retrieves a paginated list of feedback addressed to the
// user. Without an explicit status filter, only approved feedback is
// returned: pending and rejected items are invisible to their recipient.
func (r *PostgresRepository) ReceivedByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error) {
	status := StatusApproved
	if filter.Status != nil {
		status = *filter.Status
	}

	conditions := []string{"f.recipient_id = $1", "f.status = $2"}
	args := []any{userID, status}
	return r.list(ctx, conditions, args, filter.Page, filter.Limit)
}

// PendingByTeam retrieves a paginated list of pending feedback for a team.
func (r *PostgresRepository) PendingByTeam(ctx context.Context, teamID uuid.UUID, page, limit int) (*ListResult, error) {
	conditions := []string{"f.team_id = $1", "f.status = $2"}
	args := []any{teamID, StatusPending}
	return r.list(ctx, conditions, args, page, limit)
}

// PendingByRecipient retrieves all pending feedback addressed to a user.
func (r *PostgresRepository) PendingByRecipient(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	query := fmt.Sprintf(`
		SELECT %s, a.name, rc.name, s.name, fl.name
		FROM feedback f
		JOIN users a ON a.id = f.author_id
		JOIN users rc ON rc.id = f.recipient_id
		LEFT JOIN sprints s ON s.id = f.sprint_id
		LEFT JOIN feelings fl ON fl.id = f.feeling_id
		WHERE f.recipient_id = $1 AND f.status = $2
		ORDER BY f.created_at DESC`, feedbackColumns)

	rows, err := r.pool.Query(ctx, query, userID, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("listing pending feedback: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// list runs the shared count + window query pair for the paged listings,
// ordered by creation time descending.
func (r *PostgresRepository) list(ctx context.Context, conditions []string, args []any, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM feedback f %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting feedback: %w", err)
	}

	offset := (page - 1) * limit
	argIdx := len(args) + 1

	dataQuery := fmt.Sprintf(`
		SELECT %s, a.name, rc.name, s.name, fl.name
		FROM feedback f
		JOIN users a ON a.id = f.author_id
		JOIN users rc ON rc.id = f.recipient_id
		LEFT JOIN sprints s ON s.id = f.sprint_id
		LEFT JOIN feelings fl ON fl.id = f.feeling_id
		%s
		ORDER BY f.created_at DESC
		LIMIT $%d OFFSET $%d`, feedbackColumns, whereClause, argIdx, argIdx+1)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func scanItems(rows pgx.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var row feedbackRow
		var item Item
		fields := append(row.fields(), &item.AuthorName, &item.RecipientName, &item.SprintName, &item.FeelingName)
		if err := rows.Scan(fields...); err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		item.Feedback = row.entity()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback rows: %w", err)
	}

	if items == nil {
		items = []Item{}
	}

	return items, nil
}
