package domain

import (
	"context"
)

// SavedQueryRepository persists translation records.
// Implemented by repository.SavedQueryRepo.
type SavedQueryRepository interface {
	Insert(ctx context.Context, sq *SavedQuery) (*SavedQuery, error)
	GetByID(ctx context.Context, id string) (*SavedQuery, error)
	// List returns the page of saved queries matching the filter plus the
	// total count across all pages.
	List(ctx context.Context, filter SavedQueryFilter) ([]SavedQuery, int64, error)
	Delete(ctx context.Context, id string) error
}
