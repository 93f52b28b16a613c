package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/teampulse/teampulse/internal/feeling"
	"github.com/teampulse/teampulse/internal/user"
)

// SameTeam reports whether both users belong to the same team. A user with
// no team never satisfies the check.
func SameTeam(a, b *user.User) bool {
	if a == nil || b == nil || a.TeamID == nil || b.TeamID == nil {
		return false
	}
	return *a.TeamID == *b.TeamID
}

// Validator performs the cross-entity checks shared by the creation and
// review workflows.
type Validator struct {
	feelings feeling.Repository
}

// NewValidator creates a Validator over the feeling collaborator.
func NewValidator(feelings feeling.Repository) *Validator {
	return &Validator{feelings: feelings}
}

// ResolveFeeling resolves an optional feeling id. A nil id is always valid
// and resolves to no feeling; a non-nil id must exist.
func (v *Validator) ResolveFeeling(ctx context.Context, id *uuid.UUID) (*feeling.Feeling, error) {
	if id == nil {
		return nil, nil
	}
	return v.feelings.GetByID(ctx, *id)
}
