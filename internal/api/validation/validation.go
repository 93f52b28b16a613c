package validation

import "github.com/google/uuid"

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
