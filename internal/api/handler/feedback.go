package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/teampulse/teampulse/internal/api/middleware"
	"github.com/teampulse/teampulse/internal/api/response"
	"github.com/teampulse/teampulse/internal/api/validation"
	"github.com/teampulse/teampulse/internal/feedback"
	"github.com/teampulse/teampulse/internal/feeling"
	"github.com/teampulse/teampulse/internal/pagination"
	"github.com/teampulse/teampulse/internal/sprint"
	"github.com/teampulse/teampulse/internal/user"
)

// FeedbackService is the workflow surface the handler drives.
type FeedbackService interface {
	Create(ctx context.Context, p feedback.CreateParams) (*feedback.Summary, error)
	Approve(ctx context.Context, feedbackID, reviewerID uuid.UUID, notes *string) error
	Reject(ctx context.Context, feedbackID, reviewerID uuid.UUID, notes string) error
	Sent(ctx context.Context, authorID uuid.UUID, filter feedback.ListFilter) (pagination.Page[feedback.Summary], error)
	Received(ctx context.Context, userID uuid.UUID, filter feedback.ListFilter) (pagination.Page[feedback.Summary], error)
	PendingForManager(ctx context.Context, managerID uuid.UUID, page, limit int) (pagination.Page[feedback.Summary], error)
	PendingForRecipient(ctx context.Context, userID uuid.UUID) ([]feedback.Summary, error)
}

type createFeedbackRequest struct {
	AuthorID    string `json:"authorId"`
	RecipientID string `json:"recipientId"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Content     string `json:"content"`
	IsAnonymous bool   `json:"isAnonymous"`
	FeelingID   string `json:"feelingId,omitempty"`
}

type reviewFeedbackRequest struct {
	ReviewerID string `json:"reviewerId"`
	Notes      string `json:"notes,omitempty"`
}

type feedbackSummaryResponse struct {
	ID            string  `json:"id"`
	AuthorID      *string `json:"authorId,omitempty"`
	AuthorName    string  `json:"authorName"`
	RecipientID   string  `json:"recipientId"`
	RecipientName string  `json:"recipientName"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	Content       string  `json:"content"`
	IsAnonymous   bool    `json:"isAnonymous"`
	Status        string  `json:"status"`
	FeelingName   *string `json:"feelingName,omitempty"`
	SprintName    *string `json:"sprintName,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// toFeedbackSummaryResponse maps a summary to its DTO. When maskAuthor is set,
// anonymous feedback hides the author's identity from the reader.
func toFeedbackSummaryResponse(s *feedback.Summary, maskAuthor bool) feedbackSummaryResponse {
	resp := feedbackSummaryResponse{
		ID:            s.ID.String(),
		AuthorName:    s.AuthorName,
		RecipientID:   s.RecipientID.String(),
		RecipientName: s.RecipientName,
		Type:          string(s.Type),
		Category:      string(s.Category),
		Content:       s.Content,
		IsAnonymous:   s.IsAnonymous,
		Status:        string(s.Status),
		FeelingName:   s.FeelingName,
		SprintName:    s.SprintName,
		CreatedAt:     s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}

	if maskAuthor && s.IsAnonymous {
		resp.AuthorName = "Anonymous"
	} else {
		aid := s.AuthorID.String()
		resp.AuthorID = &aid
	}

	return resp
}

// FeedbackHandler handles feedback endpoints.
type FeedbackHandler struct {
	service FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(service FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Create handles POST /feedback.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateFeedbackRequest(validation.CreateFeedbackRequest{
		AuthorID:    req.AuthorID,
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Category:    req.Category,
		Content:     req.Content,
		FeelingID:   req.FeelingID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	// All ids parse after validation.
	authorID, _ := uuid.Parse(req.AuthorID)
	recipientID, _ := uuid.Parse(req.RecipientID)
	var feelingID *uuid.UUID
	if req.FeelingID != "" {
		fid, _ := uuid.Parse(req.FeelingID)
		feelingID = &fid
	}

	summary, err := h.service.Create(r.Context(), feedback.CreateParams{
		AuthorID:    authorID,
		RecipientID: recipientID,
		Type:        feedback.Type(req.Type),
		Category:    feedback.Category(req.Category),
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		FeelingID:   feelingID,
	})
	if err != nil {
		h.writeWorkflowError(w, err, "failed to create feedback", requestID)
		return
	}

	resp := toFeedbackSummaryResponse(summary, false)
	response.Success(w, http.StatusCreated, resp, requestID)
}

// Approve handles POST /feedback/{id}/approve.
func (h *FeedbackHandler) Approve(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req reviewFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateApproveFeedbackRequest(validation.ApproveFeedbackRequest{
		ReviewerID: req.ReviewerID,
		Notes:      req.Notes,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	reviewerID, _ := uuid.Parse(req.ReviewerID) // already validated

	var notes *string
	if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
		notes = &trimmed
	}

	if err := h.service.Approve(r.Context(), id, reviewerID, notes); err != nil {
		h.writeWorkflowError(w, err, "failed to approve feedback", requestID)
		return
	}

	response.NoContent(w)
}

// Reject handles POST /feedback/{id}/reject.
func (h *FeedbackHandler) Reject(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req reviewFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateRejectFeedbackRequest(validation.RejectFeedbackRequest{
		ReviewerID: req.ReviewerID,
		Notes:      req.Notes,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	reviewerID, _ := uuid.Parse(req.ReviewerID) // already validated

	if err := h.service.Reject(r.Context(), id, reviewerID, strings.TrimSpace(req.Notes)); err != nil {
		h.writeWorkflowError(w, err, "failed to reject feedback", requestID)
		return
	}

	response.NoContent(w)
}

// Sent handles GET /feedback/sent/{id}.
func (h *FeedbackHandler) Sent(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	authorID, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	filter, ok := parseListFilter(w, r, requestID)
	if !ok {
		return
	}

	result, err := h.service.Sent(r.Context(), authorID, filter)
	if err != nil {
		h.writeWorkflowError(w, err, "failed to list sent feedback", requestID)
		return
	}

	h.writePage(w, result, false, requestID)
}

// Received handles GET /feedback/received/{id}. Anonymous feedback is masked
// for the recipient.
func (h *FeedbackHandler) Received(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	userID, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	filter, ok := parseListFilter(w, r, requestID)
	if !ok {
		return
	}

	result, err := h.service.Received(r.Context(), userID, filter)
	if err != nil {
		h.writeWorkflowError(w, err, "failed to list received feedback", requestID)
		return
	}

	h.writePage(w, result, true, requestID)
}

// PendingForManager handles GET /feedback/pending/team/{id}. Reviewers always
// see the author, anonymous or not.
func (h *FeedbackHandler) PendingForManager(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	managerID, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	page, limit := parsePageParams(r)

	result, err := h.service.PendingForManager(r.Context(), managerID, page, limit)
	if err != nil {
		h.writeWorkflowError(w, err, "failed to list pending feedback", requestID)
		return
	}

	h.writePage(w, result, false, requestID)
}

// PendingForRecipient handles GET /feedback/pending/recipient/{id}.
func (h *FeedbackHandler) PendingForRecipient(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	userID, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	summaries, err := h.service.PendingForRecipient(r.Context(), userID)
	if err != nil {
		h.writeWorkflowError(w, err, "failed to list pending feedback", requestID)
		return
	}

	items := make([]feedbackSummaryResponse, 0, len(summaries))
	for i := range summaries {
		items = append(items, toFeedbackSummaryResponse(&summaries[i], true))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

func (h *FeedbackHandler) writePage(w http.ResponseWriter, page pagination.Page[feedback.Summary], maskAuthor bool, requestID string) {
	items := make([]feedbackSummaryResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toFeedbackSummaryResponse(&page.Items[i], maskAuthor))
	}

	response.SuccessList(w, http.StatusOK, items, page.TotalCount, page.Page, page.PageSize, page.TotalPages, requestID)
}

// writeWorkflowError maps workflow failures onto HTTP statuses. Business
// failure messages are surfaced verbatim.
func (h *FeedbackHandler) writeWorkflowError(w http.ResponseWriter, err error, logMsg, requestID string) {
	switch {
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, feedback.ErrRecipientNotFound),
		errors.Is(err, feeling.ErrFeelingNotFound),
		errors.Is(err, feedback.ErrFeedbackNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", err.Error(), requestID)
	case errors.Is(err, feedback.ErrCrossTeam),
		errors.Is(err, feedback.ErrNoTeam),
		errors.Is(err, sprint.ErrNoActiveSprint),
		errors.Is(err, feedback.ErrNotPending):
		response.Err(w, http.StatusConflict, "CONFLICT", err.Error(), requestID)
	case errors.Is(err, feedback.ErrSelfFeedback),
		errors.Is(err, feedback.ErrContentLength),
		errors.Is(err, feedback.ErrRejectionNotesRequired):
		response.Err(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), requestID)
	default:
		slog.Error(logMsg, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
	}
}

func parseListFilter(w http.ResponseWriter, r *http.Request, requestID string) (feedback.ListFilter, bool) {
	page, limit := parsePageParams(r)
	filter := feedback.ListFilter{Page: page, Limit: limit}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := feedback.Status(raw)
		if !status.Valid() {
			response.Err(w, http.StatusBadRequest, "INVALID_STATUS", `status must be "pending", "approved" or "rejected"`, requestID)
			return feedback.ListFilter{}, false
		}
		filter.Status = &status
	}

	return filter, true
}

// parsePageParams reads page and limit query parameters, defaulting invalid
// or absent values rather than rejecting them.
func parsePageParams(r *http.Request) (page, limit int) {
	page = 1
	limit = 20

	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 && v <= 100 {
			limit = v
		}
	}

	return page, limit
}
