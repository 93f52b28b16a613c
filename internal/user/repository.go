package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when a user with the same email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// UpdateFields holds updatable fields on a user record. Nil fields are not updated.
type UpdateFields struct {
	Name   *string
	Role   *Role
	TeamID *uuid.UUID
}

// Repository provides operations on the users table.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*User, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]User, error)
}
