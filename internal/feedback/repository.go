package feedback

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrFeedbackNotFound is returned when a feedback record is not found.
var ErrFeedbackNotFound = errors.New("feedback not found")

// Item is a feedback row joined with the display names its summary needs.
type Item struct {
	Feedback      *Feedback
	AuthorName    string
	RecipientName string
	SprintName    *string
	FeelingName   *string
}

// ListFilter holds the optional status filter and pagination window for
// feedback listings.
type ListFilter struct {
	Status *Status
	Page   int // default 1
	Limit  int // default 20
}

// ListResult holds one window of a paged feedback listing.
type ListResult struct {
	Items []Item
	Total int
	Page  int
	Limit int
}

// Repository provides operations on the feedback table.
type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	GetByID(ctx context.Context, id uuid.UUID) (*Feedback, error)

	// UpdateReview persists a Pending -> terminal transition. The write is a
	// compare-and-swap on (id, version, status = pending); ErrNotPending is
	// returned when a concurrent reviewer got there first.
	UpdateReview(ctx context.Context, f *Feedback) error

	// SentByAuthor lists feedback written by a user, any status unless filtered.
	SentByAuthor(ctx context.Context, authorID uuid.UUID, filter ListFilter) (*ListResult, error)

	// ReceivedByUser lists feedback addressed to a user. Only approved items
	// are visible unless an explicit status filter is given.
	ReceivedByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error)

	// PendingByTeam lists pending feedback awaiting review for a team.
	PendingByTeam(ctx context.Context, teamID uuid.UUID, page, limit int) (*ListResult, error)

	// PendingByRecipient lists pending feedback addressed to a user, unpaged.
	PendingByRecipient(ctx context.Context, userID uuid.UUID) ([]Item, error)
}
