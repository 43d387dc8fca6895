package domain

import "time"

// SavedQuery is one translation recorded by the service: the canvas IR as
// JSON alongside the SQL it was generated from or rendered into.
type SavedQuery struct {
	ID        string
	Name      string
	CreatedBy string
	Dialect   string
	Kind      string
	QueryJSON string
	SQLText   string
	CreatedAt time.Time
}

// SavedQueryFilter holds filter parameters for listing saved queries.
type SavedQueryFilter struct {
	CreatedBy *string
	Dialect   *string
	Kind      *string
	From      *time.Time
	To        *time.Time
	Page      PageRequest
}
