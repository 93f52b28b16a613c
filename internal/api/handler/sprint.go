package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teampulse/teampulse/internal/api/middleware"
	"github.com/teampulse/teampulse/internal/api/response"
	"github.com/teampulse/teampulse/internal/api/validation"
	"github.com/teampulse/teampulse/internal/sprint"
)

type createSprintRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	StartAt     string  `json:"startAt"`
	EndAt       string  `json:"endAt"`
	TeamID      string  `json:"teamId"`
}

type sprintResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	StartAt     string  `json:"startAt"`
	EndAt       string  `json:"endAt"`
	TeamID      string  `json:"teamId"`
	CreatedAt   string  `json:"createdAt"`
}

func toSprintResponse(s *sprint.Sprint) sprintResponse {
	return sprintResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		StartAt:     s.StartAt.UTC().Format("2006-01-02"),
		EndAt:       s.EndAt.UTC().Format("2006-01-02"),
		TeamID:      s.TeamID.String(),
		CreatedAt:   s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// SprintHandler handles sprint endpoints.
type SprintHandler struct {
	service *sprint.Service
}

// NewSprintHandler creates a new SprintHandler.
func NewSprintHandler(service *sprint.Service) *SprintHandler {
	return &SprintHandler{service: service}
}

// Create handles POST /sprints.
func (h *SprintHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createSprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateSprintRequest(validation.CreateSprintRequest{
		Name:    req.Name,
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		TeamID:  req.TeamID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	// All three parse after validation.
	startAt, _ := time.Parse("2006-01-02", req.StartAt)
	endAt, _ := time.Parse("2006-01-02", req.EndAt)
	teamID, _ := uuid.Parse(req.TeamID)

	s, err := h.service.Create(r.Context(), sprint.CreateParams{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartAt:     startAt,
		EndAt:       endAt,
		TeamID:      teamID,
	})
	if err != nil {
		if errors.Is(err, sprint.ErrInvalidWindow) {
			response.Err(w, http.StatusBadRequest, "INVALID_WINDOW", err.Error(), requestID)
			return
		}
		if errors.Is(err, sprint.ErrOverlappingSprint) {
			response.Err(w, http.StatusConflict, "OVERLAPPING_SPRINT", err.Error(), requestID)
			return
		}
		slog.Error("failed to create sprint", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create sprint", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toSprintResponse(s), requestID)
}

// Active handles GET /teams/{id}/active-sprint.
func (h *SprintHandler) Active(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	s, err := h.service.ActiveSprint(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, sprint.ErrNoActiveSprint) {
			response.Err(w, http.StatusNotFound, "NO_ACTIVE_SPRINT", err.Error(), requestID)
			return
		}
		slog.Error("failed to resolve active sprint", "error", err, "teamId", teamID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve active sprint", requestID)
		return
	}

	response.Success(w, http.StatusOK, toSprintResponse(s), requestID)
}
