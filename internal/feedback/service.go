package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teampulse/teampulse/internal/pagination"
	"github.com/teampulse/teampulse/internal/sprint"
	"github.com/teampulse/teampulse/internal/user"
)

// Workflow business failures. Messages are surfaced verbatim to callers.
var (
	// ErrRecipientNotFound deliberately differs in wording from
	// user.ErrUserNotFound; clients distinguish the two cases by message.
	ErrRecipientNotFound = errors.New("recipient user not found")
	ErrCrossTeam         = errors.New("author and recipient must be in the same team")
	ErrNoTeam            = errors.New("user does not belong to a team")
)

// UserDirectory is the user lookup collaborator the workflows need.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// SprintResolver resolves the sprint active today for a team.
type SprintResolver interface {
	ActiveSprint(ctx context.Context, teamID uuid.UUID) (*sprint.Sprint, error)
}

// Service orchestrates the feedback creation and review workflows.
type Service struct {
	users     UserDirectory
	sprints   SprintResolver
	validator *Validator
	repo      Repository
	sink      EventSink
}

// NewService creates a feedback Service.
func NewService(users UserDirectory, sprints SprintResolver, validator *Validator, repo Repository, sink EventSink) *Service {
	if sink == nil {
		sink = NopSink()
	}
	return &Service{
		users:     users,
		sprints:   sprints,
		validator: validator,
		repo:      repo,
		sink:      sink,
	}
}

// Summary is the result shape produced for API consumers.
type Summary struct {
	ID            uuid.UUID
	AuthorID      uuid.UUID
	AuthorName    string
	RecipientID   uuid.UUID
	RecipientName string
	Type          Type
	Category      Category
	Content       string
	IsAnonymous   bool
	Status        Status
	FeelingName   *string
	SprintName    *string
	CreatedAt     time.Time
}

// CreateParams holds the inputs for the feedback creation workflow.
type CreateParams struct {
	AuthorID    uuid.UUID
	RecipientID uuid.UUID
	Type        Type
	Category    Category
	Content     string
	IsAnonymous bool
	FeelingID   *uuid.UUID
}

// Create runs the ordered creation checks and persists a new pending
// feedback item. The first failing check short-circuits; nothing is written
// until every check has passed.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Summary, error) {
	author, err := s.users.GetByID(ctx, p.AuthorID)
	if err != nil {
		return nil, s.fail(ctx, "feedback.create", err, "authorId", p.AuthorID)
	}

	recipient, err := s.users.GetByID(ctx, p.RecipientID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			err = ErrRecipientNotFound
		}
		return nil, s.fail(ctx, "feedback.create", err, "recipientId", p.RecipientID)
	}

	if !SameTeam(author, recipient) {
		return nil, s.fail(ctx, "feedback.create", ErrCrossTeam, "authorId", author.ID, "recipientId", recipient.ID)
	}

	fl, err := s.validator.ResolveFeeling(ctx, p.FeelingID)
	if err != nil {
		return nil, s.fail(ctx, "feedback.create", err, "feelingId", p.FeelingID)
	}

	sp, err := s.sprints.ActiveSprint(ctx, *author.TeamID)
	if err != nil {
		return nil, s.fail(ctx, "feedback.create", err, "teamId", *author.TeamID)
	}

	f, err := New(NewParams{
		AuthorID:    author.ID,
		RecipientID: recipient.ID,
		Type:        p.Type,
		Category:    p.Category,
		Content:     p.Content,
		IsAnonymous: p.IsAnonymous,
		TeamID:      *author.TeamID,
		SprintID:    &sp.ID,
		FeelingID:   p.FeelingID,
	})
	if err != nil {
		return nil, s.fail(ctx, "feedback.create", err)
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("persisting feedback: %w", err)
	}

	s.sink.Success(ctx, "feedback.created", "feedbackId", f.ID, "teamId", f.TeamID, "sprintId", sp.ID)

	summary := &Summary{
		ID:            f.ID,
		AuthorID:      author.ID,
		AuthorName:    author.Name,
		RecipientID:   recipient.ID,
		RecipientName: recipient.Name,
		Type:          f.Type,
		Category:      f.Category,
		Content:       f.Content,
		IsAnonymous:   f.IsAnonymous,
		Status:        f.Status(),
		SprintName:    &sp.Name,
		CreatedAt:     f.CreatedAt,
	}
	if fl != nil {
		summary.FeelingName = &fl.Name
	}
	return summary, nil
}

// Approve runs the ordered review checks and transitions a pending feedback
// to approved. Notes are optional.
func (s *Service) Approve(ctx context.Context, feedbackID, reviewerID uuid.UUID, notes *string) error {
	return s.review(ctx, "feedback.approve", feedbackID, reviewerID, func(f *Feedback) error {
		return f.Approve(reviewerID, notes)
	})
}

// Reject runs the ordered review checks and transitions a pending feedback
// to rejected. Notes are mandatory.
func (s *Service) Reject(ctx context.Context, feedbackID, reviewerID uuid.UUID, notes string) error {
	return s.review(ctx, "feedback.reject", feedbackID, reviewerID, func(f *Feedback) error {
		return f.Reject(reviewerID, notes)
	})
}

// review shares the check ordering between Approve and Reject: feedback must
// exist and still be pending (checked before any user load, it is the cheap
// exit), the reviewer and both parties must resolve, and team membership is
// re-validated in case it drifted since creation.
func (s *Service) review(ctx context.Context, event string, feedbackID, reviewerID uuid.UUID, transition func(*Feedback) error) error {
	f, err := s.repo.GetByID(ctx, feedbackID)
	if err != nil {
		return s.fail(ctx, event, err, "feedbackId", feedbackID)
	}

	if f.Status() != StatusPending {
		return s.fail(ctx, event, ErrNotPending, "feedbackId", feedbackID, "status", f.Status())
	}

	if _, err := s.users.GetByID(ctx, reviewerID); err != nil {
		return s.fail(ctx, event, err, "reviewerId", reviewerID)
	}

	author, err := s.users.GetByID(ctx, f.AuthorID)
	if err != nil {
		return s.fail(ctx, event, err, "authorId", f.AuthorID)
	}
	recipient, err := s.users.GetByID(ctx, f.RecipientID)
	if err != nil {
		return s.fail(ctx, event, err, "recipientId", f.RecipientID)
	}

	if !SameTeam(author, recipient) {
		return s.fail(ctx, event, ErrCrossTeam, "feedbackId", feedbackID)
	}

	if err := transition(f); err != nil {
		return s.fail(ctx, event, err, "feedbackId", feedbackID)
	}

	if err := s.repo.UpdateReview(ctx, f); err != nil {
		if errors.Is(err, ErrNotPending) {
			// A concurrent reviewer won the compare-and-swap.
			return s.fail(ctx, event, ErrNotPending, "feedbackId", feedbackID)
		}
		return fmt.Errorf("persisting review: %w", err)
	}

	s.sink.Success(ctx, event, "feedbackId", feedbackID, "reviewerId", reviewerID, "status", f.Status())
	return nil
}

// Sent lists feedback written by the given author.
func (s *Service) Sent(ctx context.Context, authorID uuid.UUID, filter ListFilter) (pagination.Page[Summary], error) {
	res, err := s.repo.SentByAuthor(ctx, authorID, filter)
	if err != nil {
		return pagination.Page[Summary]{}, err
	}
	return toPage(res), nil
}

// Received lists feedback addressed to the given user. Without an explicit
// status filter only approved feedback is visible.
func (s *Service) Received(ctx context.Context, userID uuid.UUID, filter ListFilter) (pagination.Page[Summary], error) {
	res, err := s.repo.ReceivedByUser(ctx, userID, filter)
	if err != nil {
		return pagination.Page[Summary]{}, err
	}
	return toPage(res), nil
}

// PendingForManager lists the pending feedback awaiting review on the
// manager's team.
func (s *Service) PendingForManager(ctx context.Context, managerID uuid.UUID, page, limit int) (pagination.Page[Summary], error) {
	manager, err := s.users.GetByID(ctx, managerID)
	if err != nil {
		return pagination.Page[Summary]{}, err
	}
	if manager.TeamID == nil {
		return pagination.Page[Summary]{}, ErrNoTeam
	}

	res, err := s.repo.PendingByTeam(ctx, *manager.TeamID, page, limit)
	if err != nil {
		return pagination.Page[Summary]{}, err
	}
	return toPage(res), nil
}

// PendingForRecipient lists the pending feedback addressed to a user, unpaged.
func (s *Service) PendingForRecipient(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
	items, err := s.repo.PendingByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(items))
	for i := range items {
		summaries = append(summaries, toSummary(&items[i]))
	}
	return summaries, nil
}

func (s *Service) fail(ctx context.Context, event string, err error, attrs ...any) error {
	s.sink.Failure(ctx, event, err, attrs...)
	return err
}

func toPage(res *ListResult) pagination.Page[Summary] {
	summaries := make([]Summary, 0, len(res.Items))
	for i := range res.Items {
		summaries = append(summaries, toSummary(&res.Items[i]))
	}
	return pagination.New(summaries, res.Page, res.Limit, res.Total)
}

func toSummary(item *Item) Summary {
	f := item.Feedback
	return Summary{
		ID:            f.ID,
		AuthorID:      f.AuthorID,
		AuthorName:    item.AuthorName,
		RecipientID:   f.RecipientID,
		RecipientName: item.RecipientName,
		Type:          f.Type,
		Category:      f.Category,
		Content:       f.Content,
		IsAnonymous:   f.IsAnonymous,
		Status:        f.Status(),
		FeelingName:   item.FeelingName,
		SprintName:    item.SprintName,
		CreatedAt:     f.CreatedAt,
	}
}
