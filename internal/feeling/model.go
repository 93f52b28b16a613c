package feeling

import (
	"time"

	"github.com/google/uuid"
)

// Feeling is a free-form emotional tag a feedback author may attach.
type Feeling struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
