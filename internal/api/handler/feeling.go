package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/teampulse/teampulse/internal/api/middleware"
	"github.com/teampulse/teampulse/internal/api/response"
	"github.com/teampulse/teampulse/internal/api/validation"
	"github.com/teampulse/teampulse/internal/feeling"
)

type createFeelingRequest struct {
	Name string `json:"name"`
}

type feelingResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FeelingHandler handles feeling endpoints.
type FeelingHandler struct {
	feelings feeling.Repository
}

// NewFeelingHandler creates a new FeelingHandler.
func NewFeelingHandler(feelings feeling.Repository) *FeelingHandler {
	return &FeelingHandler{feelings: feelings}
}

// Create handles POST /feelings.
func (h *FeelingHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createFeelingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
			[]validation.FieldError{{Field: "name", Message: "name must be 1-100 characters"}}, requestID)
		return
	}

	f := &feeling.Feeling{Name: name}
	if err := h.feelings.Create(r.Context(), f); err != nil {
		if errors.Is(err, feeling.ErrDuplicateFeelingName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", "A feeling with that name already exists", requestID)
			return
		}
		slog.Error("failed to create feeling", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create feeling", requestID)
		return
	}

	response.Success(w, http.StatusCreated, feelingResponse{ID: f.ID.String(), Name: f.Name}, requestID)
}

// List handles GET /feelings.
func (h *FeelingHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	feelings, err := h.feelings.List(r.Context())
	if err != nil {
		slog.Error("failed to list feelings", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list feelings", requestID)
		return
	}

	items := make([]feelingResponse, 0, len(feelings))
	for i := range feelings {
		items = append(items, feelingResponse{ID: feelings[i].ID.String(), Name: feelings[i].Name})
	}

	response.SuccessList(w, http.StatusOK, items, len(items), 1, 100, 1, requestID)
}
