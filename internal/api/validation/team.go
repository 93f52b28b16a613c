package validation

import "strings"

// CreateTeamRequest mirrors the fields needed for create team validation.
type CreateTeamRequest struct {
	Name      string
	ManagerID string // optional
}

// ValidateCreateTeamRequest validates the fields of a create team request.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 200 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 200 characters"})
	}

	if req.ManagerID != "" && !validUUID(req.ManagerID) {
		errs = append(errs, FieldError{Field: "managerId", Message: "managerId must be a valid UUID"})
	}

	return errs
}
