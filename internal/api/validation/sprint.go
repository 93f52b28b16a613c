package validation

import (
	"strings"
	"time"
)

// CreateSprintRequest mirrors the fields needed for create sprint validation.
type CreateSprintRequest struct {
	Name    string
	StartAt string // YYYY-MM-DD
	EndAt   string // YYYY-MM-DD
	TeamID  string
}

// ValidateCreateSprintRequest validates the fields of a create sprint request.
func ValidateCreateSprintRequest(req CreateSprintRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}

	errs = append(errs, validateDate("startAt", req.StartAt)...)
	errs = append(errs, validateDate("endAt", req.EndAt)...)

	if req.TeamID == "" {
		errs = append(errs, FieldError{Field: "teamId", Message: "teamId is required"})
	} else if !validUUID(req.TeamID) {
		errs = append(errs, FieldError{Field: "teamId", Message: "teamId must be a valid UUID"})
	}

	return errs
}

func validateDate(field, value string) []FieldError {
	if value == "" {
		return []FieldError{{Field: field, Message: field + " is required"}}
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return []FieldError{{Field: field, Message: field + " must be a date in YYYY-MM-DD format"}}
	}
	return nil
}
