package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/teampulse/teampulse/internal/feedback"
)

// CreateFeedbackRequest mirrors the fields needed for create feedback validation.
type CreateFeedbackRequest struct {
	AuthorID    string
	RecipientID string
	Type        string
	Category    string
	Content     string
	FeelingID   string // optional
}

// ValidateCreateFeedbackRequest validates the fields of a create feedback request.
func ValidateCreateFeedbackRequest(req CreateFeedbackRequest) []FieldError {
	var errs []FieldError

	if req.AuthorID == "" {
		errs = append(errs, FieldError{Field: "authorId", Message: "authorId is required"})
	} else if !validUUID(req.AuthorID) {
		errs = append(errs, FieldError{Field: "authorId", Message: "authorId must be a valid UUID"})
	}

	if req.RecipientID == "" {
		errs = append(errs, FieldError{Field: "recipientId", Message: "recipientId is required"})
	} else if !validUUID(req.RecipientID) {
		errs = append(errs, FieldError{Field: "recipientId", Message: "recipientId must be a valid UUID"})
	}

	if req.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "type is required"})
	} else if !feedback.Type(req.Type).Valid() {
		errs = append(errs, FieldError{Field: "type", Message: `type must be "positive", "constructive" or "critical"`})
	}

	if req.Category == "" {
		errs = append(errs, FieldError{Field: "category", Message: "category is required"})
	} else if !feedback.Category(req.Category).Valid() {
		errs = append(errs, FieldError{Field: "category", Message: "category must be a known feedback category"})
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		errs = append(errs, FieldError{Field: "content", Message: "content is required"})
	} else if n := utf8.RuneCountInString(content); n < feedback.MinContentLength || n > feedback.MaxContentLength {
		errs = append(errs, FieldError{Field: "content", Message: "content must be between 20 and 2000 characters"})
	}

	if req.FeelingID != "" && !validUUID(req.FeelingID) {
		errs = append(errs, FieldError{Field: "feelingId", Message: "feelingId must be a valid UUID"})
	}

	return errs
}

// ApproveFeedbackRequest mirrors the fields needed for approve validation.
type ApproveFeedbackRequest struct {
	ReviewerID string
	Notes      string // optional
}

// ValidateApproveFeedbackRequest validates the fields of an approve request.
// Approval never requires notes; they are capped at the column bound.
func ValidateApproveFeedbackRequest(req ApproveFeedbackRequest) []FieldError {
	var errs []FieldError

	if req.ReviewerID == "" {
		errs = append(errs, FieldError{Field: "reviewerId", Message: "reviewerId is required"})
	} else if !validUUID(req.ReviewerID) {
		errs = append(errs, FieldError{Field: "reviewerId", Message: "reviewerId must be a valid UUID"})
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Notes)) > 500 {
		errs = append(errs, FieldError{Field: "notes", Message: "notes must be at most 500 characters"})
	}

	return errs
}

// RejectFeedbackRequest mirrors the fields needed for reject validation.
type RejectFeedbackRequest struct {
	ReviewerID string
	Notes      string
}

// ValidateRejectFeedbackRequest validates the fields of a reject request.
// Rejection must always explain itself, and at useful length.
func ValidateRejectFeedbackRequest(req RejectFeedbackRequest) []FieldError {
	var errs []FieldError

	if req.ReviewerID == "" {
		errs = append(errs, FieldError{Field: "reviewerId", Message: "reviewerId is required"})
	} else if !validUUID(req.ReviewerID) {
		errs = append(errs, FieldError{Field: "reviewerId", Message: "reviewerId must be a valid UUID"})
	}

	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		errs = append(errs, FieldError{Field: "notes", Message: "rejection notes are required"})
	} else if n := utf8.RuneCountInString(notes); n < 20 || n > 2000 {
		errs = append(errs, FieldError{Field: "notes", Message: "notes must be between 20 and 2000 characters"})
	}

	return errs
}
