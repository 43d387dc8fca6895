package domain

import (
	"github.com/google/uuid"
)

// NewID generates a UUIDv7 string for application-owned entities. V7 IDs are
// time-ordered, so saved queries sort by creation time on their primary key.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
