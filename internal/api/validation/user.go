package validation

import (
	"strings"

	"github.com/teampulse/teampulse/internal/user"
)

// CreateUserRequest mirrors the fields needed for create user validation.
type CreateUserRequest struct {
	Email    string
	Password string
	Name     string
	Role     string
	TeamID   string // optional
}

// ValidateCreateUserRequest validates the fields of a create user request.
func ValidateCreateUserRequest(req CreateUserRequest) []FieldError {
	var errs []FieldError

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if !strings.Contains(email, "@") || len(email) > 255 {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address of at most 255 characters"})
	}

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else if len(req.Password) < 8 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}

	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}

	if req.Role == "" {
		errs = append(errs, FieldError{Field: "role", Message: "role is required"})
	} else if !user.Role(req.Role).Valid() {
		errs = append(errs, FieldError{Field: "role", Message: `role must be "admin", "manager" or "member"`})
	}

	if req.TeamID != "" && !validUUID(req.TeamID) {
		errs = append(errs, FieldError{Field: "teamId", Message: "teamId must be a valid UUID"})
	}

	return errs
}
