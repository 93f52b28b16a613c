package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/teampulse/internal/api/handler"
	"github.com/teampulse/teampulse/internal/feedback"
	"github.com/teampulse/teampulse/internal/pagination"
	"github.com/teampulse/teampulse/internal/sprint"
)

// --- Mock Feedback Service ---

type mockFeedbackService struct {
	createFn              func(ctx context.Context, p feedback.CreateParams) (*feedback.Summary, error)
	approveFn             func(ctx context.Context, feedbackID, reviewerID uuid.UUID, notes *string) error
	rejectFn              func(ctx context.Context, feedbackID, reviewerID uuid.UUID, notes string) error
	sentFn                func(ctx context.Context, authorID uuid.UUID, filter feedback.ListFilter) (pagination.Page[feedback.Summary], error)
	receivedFn            func(ctx context.Context, userID uuid.UUID, filter feedback.ListFilter) (pagination.Page[feedback.Summary], error)
	pendingForManagerFn   func(ctx context.Context, managerID uuid.UUID, page, limit int) (pagination.Page[feedback.Summary], error)
	pendingForRecipientFn func(ctx context.Context, userID uuid.UUID) ([]feedback.Summary, error)
}

func (m *mockFeedbackService) Create(ctx context.Context, p feedback.CreateParams) (*feedback.Summary, error) {
	return m.createFn(ctx, p)
}

func (m *mockFeedbackService) Approve(ctx context.Context, feedbackID, reviewerID uuid.UUID, notes *string) error {
	return m.approveFn(ctx, feedbackID, reviewerID, notes)
}

func (m *mockFeedbackService) Reject(ctx context.Context, feedbackID, reviewerID uuid.UUID, notes string) error {
	return m.rejectFn(ctx, feedbackID, reviewerID, notes)
}

func (m *mockFeedbackService) Sent(ctx context.Context, authorID uuid.UUID, filter feedback.ListFilter) (pagination.Page[feedback.Summary], error) {
	return m.sentFn(ctx, authorID, filter)
}

func (m *mockFeedbackService) Received(ctx context.Context, userID uuid.UUID, filter feedback.ListFilter) (pagination.Page[feedback.Summary], error) {
	return m.receivedFn(ctx, userID, filter)
}

func (m *mockFeedbackService) PendingForManager(ctx context.Context, managerID uuid.UUID, page, limit int) (pagination.Page[feedback.Summary], error) {
	return m.pendingForManagerFn(ctx, managerID, page, limit)
}

func (m *mockFeedbackService) PendingForRecipient(ctx context.Context, userID uuid.UUID) ([]feedback.Summary, error) {
	return m.pendingForRecipientFn(ctx, userID)
}

// makeRequest builds a request carrying a chi route context with the {id}
// URL parameter set.
func makeRequest(method, target, id, body string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}

	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var env map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func errorCode(t *testing.T, env map[string]any) (code, message string) {
	t.Helper()

	errObj, ok := env["error"].(map[string]any)
	require.True(t, ok, "expected error object in envelope")
	return errObj["code"].(string), errObj["message"].(string)
}

func sampleSummary(authorID, recipientID uuid.UUID, anonymous bool) feedback.Summary {
	return feedback.Summary{
		ID:            uuid.New(),
		AuthorID:      authorID,
		AuthorName:    "Ana",
		RecipientID:   recipientID,
		RecipientName: "Ben",
		Type:          feedback.TypePositive,
		Category:      feedback.CategoryTeamwork,
		Content:       "Great collaboration on the release last week.",
		IsAnonymous:   anonymous,
		Status:        feedback.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
}

// ===== Create =====

func TestFeedbackCreate_Success(t *testing.T) {
	t.Parallel()

	authorID := uuid.New()
	recipientID := uuid.New()

	svc := &mockFeedbackService{
		createFn: func(_ context.Context, p feedback.CreateParams) (*feedback.Summary, error) {
			assert.Equal(t, authorID, p.AuthorID)
			assert.Equal(t, recipientID, p.RecipientID)
			assert.Equal(t, feedback.TypePositive, p.Type)
			assert.True(t, p.IsAnonymous)

			s := sampleSummary(p.AuthorID, p.RecipientID, p.IsAnonymous)
			return &s, nil
		},
	}

	body := fmt.Sprintf(`{
		"authorId": %q,
		"recipientId": %q,
		"type": "positive",
		"category": "teamwork",
		"content": "Great collaboration on the release last week.",
		"isAnonymous": true
	}`, authorID, recipientID)

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Create(rec, makeRequest(http.MethodPost, "/feedback", "", body))

	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]any)
	// The author always sees their own identity on the echo.
	assert.Equal(t, authorID.String(), data["authorId"])
	assert.Equal(t, "Ana", data["authorName"])
	assert.Equal(t, "pending", data["status"])
}

func TestFeedbackCreate_InvalidJSON(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{}

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Create(rec, makeRequest(http.MethodPost, "/feedback", "", "{not json"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := errorCode(t, decodeEnvelope(t, rec))
	assert.Equal(t, "INVALID_JSON", code)
}

func TestFeedbackCreate_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{}

	body := `{"authorId": "nope", "type": "glowing", "content": "short"}`

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Create(rec, makeRequest(http.MethodPost, "/feedback", "", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	code, _ := errorCode(t, env)
	assert.Equal(t, "VALIDATION_ERROR", code)

	details := env["error"].(map[string]any)["details"].([]any)
	assert.NotEmpty(t, details)
}

func TestFeedbackCreate_CrossTeam(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{
		createFn: func(_ context.Context, _ feedback.CreateParams) (*feedback.Summary, error) {
			return nil, feedback.ErrCrossTeam
		},
	}

	body := fmt.Sprintf(`{
		"authorId": %q,
		"recipientId": %q,
		"type": "positive",
		"category": "teamwork",
		"content": "Great collaboration on the release last week."
	}`, uuid.New(), uuid.New())

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Create(rec, makeRequest(http.MethodPost, "/feedback", "", body))

	require.Equal(t, http.StatusConflict, rec.Code)
	code, msg := errorCode(t, decodeEnvelope(t, rec))
	assert.Equal(t, "CONFLICT", code)
	assert.Equal(t, "author and recipient must be in the same team", msg)
}

func TestFeedbackCreate_NoActiveSprint(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{
		createFn: func(_ context.Context, _ feedback.CreateParams) (*feedback.Summary, error) {
			return nil, sprint.ErrNoActiveSprint
		},
	}

	body := fmt.Sprintf(`{
		"authorId": %q,
		"recipientId": %q,
		"type": "positive",
		"category": "teamwork",
		"content": "Great collaboration on the release last week."
	}`, uuid.New(), uuid.New())

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Create(rec, makeRequest(http.MethodPost, "/feedback", "", body))

	require.Equal(t, http.StatusConflict, rec.Code)
	_, msg := errorCode(t, decodeEnvelope(t, rec))
	assert.Equal(t, "there is no sprint going", msg)
}

func TestFeedbackCreate_RecipientNotFound(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{
		createFn: func(_ context.Context, _ feedback.CreateParams) (*feedback.Summary, error) {
			return nil, feedback.ErrRecipientNotFound
		},
	}

	body := fmt.Sprintf(`{
		"authorId": %q,
		"recipientId": %q,
		"type": "positive",
		"category": "teamwork",
		"content": "Great collaboration on the release last week."
	}`, uuid.New(), uuid.New())

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Create(rec, makeRequest(http.MethodPost, "/feedback", "", body))

	require.Equal(t, http.StatusNotFound, rec.Code)
	code, msg := errorCode(t, decodeEnvelope(t, rec))
	assert.Equal(t, "NOT_FOUND", code)
	assert.Equal(t, "recipient user not found", msg)
}

// ===== Approve / Reject =====

func TestFeedbackApprove_Success(t *testing.T) {
	t.Parallel()

	feedbackID := uuid.New()
	reviewerID := uuid.New()

	svc := &mockFeedbackService{
		approveFn: func(_ context.Context, gotFeedback, gotReviewer uuid.UUID, notes *string) error {
			assert.Equal(t, feedbackID, gotFeedback)
			assert.Equal(t, reviewerID, gotReviewer)
			require.NotNil(t, notes)
			assert.Equal(t, "Looks good!", *notes)
			return nil
		},
	}

	body := fmt.Sprintf(`{"reviewerId": %q, "notes": "Looks good!"}`, reviewerID)

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Approve(rec, makeRequest(http.MethodPost, "/feedback/"+feedbackID.String()+"/approve", feedbackID.String(), body))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestFeedbackApprove_EmptyNotesBecomeNil(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{
		approveFn: func(_ context.Context, _, _ uuid.UUID, notes *string) error {
			assert.Nil(t, notes)
			return nil
		},
	}

	id := uuid.New().String()
	body := fmt.Sprintf(`{"reviewerId": %q, "notes": "   "}`, uuid.New())

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Approve(rec, makeRequest(http.MethodPost, "/feedback/"+id+"/approve", id, body))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestFeedbackApprove_InvalidID(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{}

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Approve(rec, makeRequest(http.MethodPost, "/feedback/nope/approve", "nope", `{}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := errorCode(t, decodeEnvelope(t, rec))
	assert.Equal(t, "INVALID_ID", code)
}

func TestFeedbackApprove_NotPending(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{
		approveFn: func(_ context.Context, _, _ uuid.UUID, _ *string) error {
			return feedback.ErrNotPending
		},
	}

	id := uuid.New().String()
	body := fmt.Sprintf(`{"reviewerId": %q}`, uuid.New())

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Approve(rec, makeRequest(http.MethodPost, "/feedback/"+id+"/approve", id, body))

	require.Equal(t, http.StatusConflict, rec.Code)
	_, msg := errorCode(t, decodeEnvelope(t, rec))
	assert.Equal(t, "feedback is not pending", msg)
}

func TestFeedbackReject_Success(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{
		rejectFn: func(_ context.Context, _, _ uuid.UUID, notes string) error {
			assert.Equal(t, "Too vague to act on, please be specific.", notes)
			return nil
		},
	}

	id := uuid.New().String()
	body := fmt.Sprintf(`{"reviewerId": %q, "notes": "Too vague to act on, please be specific."}`, uuid.New())

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Reject(rec, makeRequest(http.MethodPost, "/feedback/"+id+"/reject", id, body))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestFeedbackReject_MissingNotes(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{}

	id := uuid.New().String()
	body := fmt.Sprintf(`{"reviewerId": %q}`, uuid.New())

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Reject(rec, makeRequest(http.MethodPost, "/feedback/"+id+"/reject", id, body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := errorCode(t, decodeEnvelope(t, rec))
	assert.Equal(t, "VALIDATION_ERROR", code)
}

// ===== Listings =====

func TestFeedbackSent_PaginationMeta(t *testing.T) {
	t.Parallel()

	authorID := uuid.New()

	svc := &mockFeedbackService{
		sentFn: func(_ context.Context, gotAuthor uuid.UUID, filter feedback.ListFilter) (pagination.Page[feedback.Summary], error) {
			assert.Equal(t, authorID, gotAuthor)
			assert.Equal(t, 2, filter.Page)
			assert.Equal(t, 5, filter.Limit)
			require.NotNil(t, filter.Status)
			assert.Equal(t, feedback.StatusApproved, *filter.Status)

			items := []feedback.Summary{sampleSummary(authorID, uuid.New(), false)}
			return pagination.New(items, 2, 5, 12), nil
		},
	}

	target := "/feedback/sent/" + authorID.String() + "?page=2&limit=5&status=approved"

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Sent(rec, makeRequest(http.MethodGet, target, authorID.String(), ""))

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	meta := env["meta"].(map[string]any)
	assert.Equal(t, float64(12), meta["total"])
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(5), meta["limit"])
	assert.Equal(t, float64(3), meta["totalPages"])
}

func TestFeedbackSent_InvalidStatus(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{}
	id := uuid.New().String()

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Sent(rec, makeRequest(http.MethodGet, "/feedback/sent/"+id+"?status=draft", id, ""))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := errorCode(t, decodeEnvelope(t, rec))
	assert.Equal(t, "INVALID_STATUS", code)
}

func TestFeedbackReceived_MasksAnonymousAuthor(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	svc := &mockFeedbackService{
		receivedFn: func(_ context.Context, _ uuid.UUID, _ feedback.ListFilter) (pagination.Page[feedback.Summary], error) {
			items := []feedback.Summary{
				sampleSummary(uuid.New(), userID, true),
				sampleSummary(uuid.New(), userID, false),
			}
			return pagination.New(items, 1, 20, 2), nil
		},
	}

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).Received(rec, makeRequest(http.MethodGet, "/feedback/received/"+userID.String(), userID.String(), ""))

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	items := env["data"].([]any)
	require.Len(t, items, 2)

	masked := items[0].(map[string]any)
	assert.Equal(t, "Anonymous", masked["authorName"])
	assert.NotContains(t, masked, "authorId")

	open := items[1].(map[string]any)
	assert.Equal(t, "Ana", open["authorName"])
	assert.Contains(t, open, "authorId")
}

func TestFeedbackPendingForManager_NoTeam(t *testing.T) {
	t.Parallel()

	svc := &mockFeedbackService{
		pendingForManagerFn: func(_ context.Context, _ uuid.UUID, _, _ int) (pagination.Page[feedback.Summary], error) {
			return pagination.Page[feedback.Summary]{}, feedback.ErrNoTeam
		},
	}

	id := uuid.New().String()

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).PendingForManager(rec, makeRequest(http.MethodGet, "/feedback/pending/team/"+id, id, ""))

	require.Equal(t, http.StatusConflict, rec.Code)
	code, _ := errorCode(t, decodeEnvelope(t, rec))
	assert.Equal(t, "CONFLICT", code)
}

func TestFeedbackPendingForManager_SeesAnonymousAuthor(t *testing.T) {
	t.Parallel()

	managerID := uuid.New()
	authorID := uuid.New()

	svc := &mockFeedbackService{
		pendingForManagerFn: func(_ context.Context, _ uuid.UUID, page, limit int) (pagination.Page[feedback.Summary], error) {
			assert.Equal(t, 1, page)
			assert.Equal(t, 20, limit)
			items := []feedback.Summary{sampleSummary(authorID, uuid.New(), true)}
			return pagination.New(items, 1, 20, 1), nil
		},
	}

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).PendingForManager(rec, makeRequest(http.MethodGet, "/feedback/pending/team/"+managerID.String(), managerID.String(), ""))

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	items := env["data"].([]any)
	require.Len(t, items, 1)

	// The reviewer sees the real author even on anonymous feedback.
	item := items[0].(map[string]any)
	assert.Equal(t, authorID.String(), item["authorId"])
	assert.Equal(t, "Ana", item["authorName"])
}

func TestFeedbackPendingForRecipient_Masked(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	svc := &mockFeedbackService{
		pendingForRecipientFn: func(_ context.Context, gotUser uuid.UUID) ([]feedback.Summary, error) {
			assert.Equal(t, userID, gotUser)
			return []feedback.Summary{sampleSummary(uuid.New(), userID, true)}, nil
		},
	}

	rec := httptest.NewRecorder()
	handler.NewFeedbackHandler(svc).PendingForRecipient(rec, makeRequest(http.MethodGet, "/feedback/pending/recipient/"+userID.String(), userID.String(), ""))

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	items := env["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Anonymous", items[0].(map[string]any)["authorName"])
}
