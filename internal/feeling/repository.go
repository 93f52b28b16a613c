package feeling

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrFeelingNotFound is returned when a feeling record is not found.
var ErrFeelingNotFound = errors.New("feeling not found")

// ErrDuplicateFeelingName is returned when a feeling with the same name already exists.
var ErrDuplicateFeelingName = errors.New("feeling name already exists")

// Repository provides operations on the feelings table.
type Repository interface {
	Create(ctx context.Context, feeling *Feeling) error
	GetByID(ctx context.Context, id uuid.UUID) (*Feeling, error)
	List(ctx context.Context) ([]Feeling, error)
}
