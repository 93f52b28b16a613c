package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/teampulse/teampulse/internal/api/middleware"
	"github.com/teampulse/teampulse/internal/api/response"
	"github.com/teampulse/teampulse/internal/api/validation"
	"github.com/teampulse/teampulse/internal/team"
	"github.com/teampulse/teampulse/internal/user"
)

type createTeamRequest struct {
	Name      string `json:"name"`
	ManagerID string `json:"managerId,omitempty"`
}

type updateTeamRequest struct {
	Name      *string `json:"name,omitempty"`
	ManagerID *string `json:"managerId,omitempty"`
}

type teamResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	ManagerID *string      `json:"managerId,omitempty"`
	Members   []memberItem `json:"members,omitempty"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

type memberItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toTeamResponse(t *team.Team, members []user.User) teamResponse {
	resp := teamResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		CreatedAt: t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: t.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if t.ManagerID != nil {
		mid := t.ManagerID.String()
		resp.ManagerID = &mid
	}
	for i := range members {
		m := &members[i]
		resp.Members = append(resp.Members, memberItem{
			ID:    m.ID.String(),
			Name:  m.Name,
			Email: m.Email,
			Role:  string(m.Role),
		})
	}
	return resp
}

// TeamHandler handles team endpoints.
type TeamHandler struct {
	teams team.Repository
	users user.Repository
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teams team.Repository, users user.Repository) *TeamHandler {
	return &TeamHandler{teams: teams, users: users}
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{
		Name:      req.Name,
		ManagerID: req.ManagerID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t := &team.Team{Name: strings.TrimSpace(req.Name)}
	if req.ManagerID != "" {
		mid, _ := uuid.Parse(req.ManagerID) // already validated
		t.ManagerID = &mid
	}

	if err := h.teams.Create(r.Context(), t); err != nil {
		if errors.Is(err, team.ErrDuplicateTeamName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", fmt.Sprintf("A team named %q already exists", t.Name), requestID)
			return
		}
		slog.Error("failed to create team", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create team", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(t, nil), requestID)
}

// GetByID handles GET /teams/{id}, returning the team with its members.
func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	t, err := h.teams.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		slog.Error("failed to get team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get team", requestID)
		return
	}

	members, err := h.users.ListByTeam(r.Context(), id)
	if err != nil {
		slog.Error("failed to list team members", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get team", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(t, members), requestID)
}

// List handles GET /teams, returning all teams with their members.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teams, err := h.teams.List(r.Context())
	if err != nil {
		slog.Error("failed to list teams", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list teams", requestID)
		return
	}

	items := make([]teamResponse, 0, len(teams))
	for i := range teams {
		members, err := h.users.ListByTeam(r.Context(), teams[i].ID)
		if err != nil {
			slog.Error("failed to list team members", "error", err, "id", teams[i].ID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list teams", requestID)
			return
		}
		items = append(items, toTeamResponse(&teams[i], members))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, 100, 1, requestID)
}

// Update handles PATCH /teams/{id}.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseIDParam(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	var fields team.UpdateFields
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > 200 {
			response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
				[]validation.FieldError{{Field: "name", Message: "name must be 1-200 characters"}}, requestID)
			return
		}
		fields.Name = &name
	}
	if req.ManagerID != nil {
		mid, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
				[]validation.FieldError{{Field: "managerId", Message: "managerId must be a valid UUID"}}, requestID)
			return
		}
		fields.ManagerID = &mid
	}

	t, err := h.teams.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		if errors.Is(err, team.ErrDuplicateTeamName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", "A team with that name already exists", requestID)
			return
		}
		slog.Error("failed to update team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update team", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(t, nil), requestID)
}

func parseIDParam(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}
