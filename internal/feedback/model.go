package feedback

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Content length bounds in characters, applied after trimming.
const (
	MinContentLength = 20
	MaxContentLength = 2000
)

// Type classifies the tone of a feedback item.
type Type string

const (
	TypePositive     Type = "positive"
	TypeConstructive Type = "constructive"
	TypeCritical     Type = "critical"
)

// Valid reports whether t is a known feedback type.
func (t Type) Valid() bool {
	switch t {
	case TypePositive, TypeConstructive, TypeCritical:
		return true
	}
	return false
}

// Category classifies the subject of a feedback item.
type Category string

const (
	CategoryTeamwork       Category = "teamwork"
	CategoryCodeQuality    Category = "code_quality"
	CategoryCommunication  Category = "communication"
	CategoryProblemSolving Category = "problem_solving"
	CategoryLeadership     Category = "leadership"
	CategoryOther          Category = "other"
)

// Valid reports whether c is a known feedback category.
func (c Category) Valid() bool {
	switch c {
	case CategoryTeamwork, CategoryCodeQuality, CategoryCommunication,
		CategoryProblemSolving, CategoryLeadership, CategoryOther:
		return true
	}
	return false
}

// Status is the review state of a feedback item. Pending is the only initial
// state; Approved and Rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Entity invariant errors. The workflows pre-validate every precondition, so
// these escaping to a client indicates a programming error upstream.
var (
	ErrSelfFeedback           = errors.New("feedback author and recipient must be different users")
	ErrContentLength          = errors.New("feedback content must be between 20 and 2000 characters")
	ErrNotPending             = errors.New("feedback is not pending")
	ErrRejectionNotesRequired = errors.New("rejection notes are required")
)

// Review holds the outcome of a manager review. It is nil while a feedback
// item is pending, so a reviewed status without reviewer metadata cannot be
// represented.
type Review struct {
	ReviewerID uuid.UUID
	Notes      *string // always set on rejection, optional on approval
	At         time.Time
}

// Feedback is a reviewed message from one team member to another. Identity
// and content are fixed at construction; only the review state changes, and
// it changes exactly once.
type Feedback struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	RecipientID uuid.UUID
	Type        Type
	Category    Category
	Content     string
	IsAnonymous bool
	TeamID      uuid.UUID
	SprintID    *uuid.UUID
	FeelingID   *uuid.UUID
	CreatedAt   time.Time
	Version     int // optimistic concurrency token, bumped on review

	status Status
	review *Review
}

// NewParams holds the inputs for constructing a pending feedback item.
type NewParams struct {
	AuthorID    uuid.UUID
	RecipientID uuid.UUID
	Type        Type
	Category    Category
	Content     string
	IsAnonymous bool
	TeamID      uuid.UUID
	SprintID    *uuid.UUID
	FeelingID   *uuid.UUID
}

// New constructs a pending feedback item. Content is trimmed and must be
// 20-2000 characters; the author cannot be the recipient.
func New(p NewParams) (*Feedback, error) {
	if p.AuthorID == p.RecipientID {
		return nil, ErrSelfFeedback
	}

	content := strings.TrimSpace(p.Content)
	if n := utf8.RuneCountInString(content); n < MinContentLength || n > MaxContentLength {
		return nil, ErrContentLength
	}

	return &Feedback{
		AuthorID:    p.AuthorID,
		RecipientID: p.RecipientID,
		Type:        p.Type,
		Category:    p.Category,
		Content:     content,
		IsAnonymous: p.IsAnonymous,
		TeamID:      p.TeamID,
		SprintID:    p.SprintID,
		FeelingID:   p.FeelingID,
		Version:     1,
		status:      StatusPending,
	}, nil
}

// Status returns the current review state.
func (f *Feedback) Status() Status {
	return f.status
}

// Review returns the review outcome, or nil while the feedback is pending.
func (f *Feedback) Review() *Review {
	return f.review
}

// Approve transitions a pending feedback to approved. Notes are optional:
// approval never requires justification.
func (f *Feedback) Approve(reviewerID uuid.UUID, notes *string) error {
	if f.status != StatusPending {
		return ErrNotPending
	}

	f.status = StatusApproved
	f.review = &Review{
		ReviewerID: reviewerID,
		Notes:      notes,
		At:         time.Now().UTC(),
	}
	return nil
}

// Reject transitions a pending feedback to rejected. Notes are mandatory:
// a rejection must always explain itself.
func (f *Feedback) Reject(reviewerID uuid.UUID, notes string) error {
	if strings.TrimSpace(notes) == "" {
		return ErrRejectionNotesRequired
	}
	if f.status != StatusPending {
		return ErrNotPending
	}

	f.status = StatusRejected
	f.review = &Review{
		ReviewerID: reviewerID,
		Notes:      &notes,
		At:         time.Now().UTC(),
	}
	return nil
}

// ReconstituteParams holds a persisted feedback row for rehydration.
type ReconstituteParams struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	RecipientID uuid.UUID
	Type        Type
	Category    Category
	Content     string
	IsAnonymous bool
	Status      Status
	Review      *Review
	TeamID      uuid.UUID
	SprintID    *uuid.UUID
	FeelingID   *uuid.UUID
	CreatedAt   time.Time
	Version     int
}

// Reconstitute rebuilds a feedback entity from persisted state. It is the
// only construction path besides New; repositories must not assemble the
// struct directly.
func Reconstitute(p ReconstituteParams) *Feedback {
	return &Feedback{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		RecipientID: p.RecipientID,
		Type:        p.Type,
		Category:    p.Category,
		Content:     p.Content,
		IsAnonymous: p.IsAnonymous,
		TeamID:      p.TeamID,
		SprintID:    p.SprintID,
		FeelingID:   p.FeelingID,
		CreatedAt:   p.CreatedAt,
		Version:     p.Version,
		status:      p.Status,
		review:      p.Review,
	}
}
