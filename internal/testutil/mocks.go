// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"time"

	"querycanvas/internal/domain"
)

// === Saved Query Repository Mock ===

// MockSavedQueryRepo implements domain.SavedQueryRepository for testing.
// Without Fn overrides it behaves as an in-memory store.
type MockSavedQueryRepo struct {
	InsertFn  func(ctx context.Context, sq *domain.SavedQuery) (*domain.SavedQuery, error)
	GetByIDFn func(ctx context.Context, id string) (*domain.SavedQuery, error)
	ListFn    func(ctx context.Context, filter domain.SavedQueryFilter) ([]domain.SavedQuery, int64, error)
	DeleteFn  func(ctx context.Context, id string) error

	Saved []*domain.SavedQuery // collected records for assertions
}

// Insert implements the interface method for testing.
func (m *MockSavedQueryRepo) Insert(ctx context.Context, sq *domain.SavedQuery) (*domain.SavedQuery, error) {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, sq)
	}
	if sq.ID == "" {
		sq.ID = domain.NewID()
	}
	if sq.CreatedAt.IsZero() {
		sq.CreatedAt = time.Now().UTC()
	}
	m.Saved = append(m.Saved, sq)
	return sq, nil
}

// GetByID implements the interface method for testing.
func (m *MockSavedQueryRepo) GetByID(ctx context.Context, id string) (*domain.SavedQuery, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for _, sq := range m.Saved {
		if sq.ID == id {
			return sq, nil
		}
	}
	return nil, domain.ErrNotFound("saved query %q not found", id)
}

// List implements the interface method for testing. The default honors only
// the CreatedBy filter, which is all the service layer adds on its own.
func (m *MockSavedQueryRepo) List(ctx context.Context, filter domain.SavedQueryFilter) ([]domain.SavedQuery, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	var out []domain.SavedQuery
	for _, sq := range m.Saved {
		if filter.CreatedBy != nil && sq.CreatedBy != *filter.CreatedBy {
			continue
		}
		out = append(out, *sq)
	}
	return out, int64(len(out)), nil
}

// Delete implements the interface method for testing.
func (m *MockSavedQueryRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	for i, sq := range m.Saved {
		if sq.ID == id {
			m.Saved = append(m.Saved[:i], m.Saved[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound("saved query %q not found", id)
}

// LastSaved returns the last collected record, or nil if none.
func (m *MockSavedQueryRepo) LastSaved() *domain.SavedQuery {
	if len(m.Saved) == 0 {
		return nil
	}
	return m.Saved[len(m.Saved)-1]
}

var _ domain.SavedQueryRepository = (*MockSavedQueryRepo)(nil)
