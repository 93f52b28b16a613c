package team

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a row in the teams table.
type Team struct {
	ID        uuid.UUID
	Name      string
	ManagerID *uuid.UUID // nil until a manager is assigned
	CreatedAt time.Time
	UpdatedAt time.Time
}
