package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"querycanvas/internal/domain"
)

var _ domain.SavedQueryRepository = (*SavedQueryRepo)(nil)

// SavedQueryRepo stores translation records in SQLite. Writes go through the
// single-connection write pool; reads use the read pool.
type SavedQueryRepo struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

// NewSavedQueryRepo creates a new SavedQueryRepo over a write/read pool pair.
func NewSavedQueryRepo(writeDB, readDB *sql.DB) *SavedQueryRepo {
	return &SavedQueryRepo{writeDB: writeDB, readDB: readDB}
}

// Insert stores a new saved query and returns the persisted row.
func (r *SavedQueryRepo) Insert(ctx context.Context, sq *domain.SavedQuery) (*domain.SavedQuery, error) {
	if sq == nil {
		return nil, domain.ErrValidation("saved query is required")
	}
	if sq.ID == "" {
		sq.ID = domain.NewID()
	}

	_, err := r.writeDB.ExecContext(ctx, `
		INSERT INTO saved_queries (id, name, created_by, dialect, kind, query_json, sql_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sq.ID, sq.Name, sq.CreatedBy, sq.Dialect, sq.Kind, sq.QueryJSON, sq.SQLText)
	if err != nil {
		return nil, mapDBError(err)
	}

	return r.GetByID(ctx, sq.ID)
}

// GetByID returns a saved query by ID.
func (r *SavedQueryRepo) GetByID(ctx context.Context, id string) (*domain.SavedQuery, error) {
	row := r.readDB.QueryRowContext(ctx, `
		SELECT id, name, created_by, dialect, kind, query_json, sql_text, created_at
		FROM saved_queries WHERE id = ?
	`, id)

	sq, err := scanSavedQuery(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return sq, nil
}

// List returns the page of saved queries matching the filter plus the total
// count across all pages. Results are newest first.
func (r *SavedQueryRepo) List(ctx context.Context, filter domain.SavedQueryFilter) ([]domain.SavedQuery, int64, error) {
	conds := []string{"1=1"}
	args := []interface{}{}

	if filter.CreatedBy != nil {
		conds = append(conds, "created_by = ?")
		args = append(args, *filter.CreatedBy)
	}
	if filter.Dialect != nil {
		conds = append(conds, "dialect = ?")
		args = append(args, *filter.Dialect)
	}
	if filter.Kind != nil {
		conds = append(conds, "kind = ?")
		args = append(args, *filter.Kind)
	}
	if filter.From != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, filter.From.UTC().Format("2006-01-02 15:04:05"))
	}
	if filter.To != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, filter.To.UTC().Format("2006-01-02 15:04:05"))
	}

	where := strings.Join(conds, " AND ")
	listArgs := append(append([]interface{}{}, args...), filter.Page.Limit(), filter.Page.Offset())

	// The count and the page hit different read-pool connections, so run
	// them concurrently.
	var (
		total int64
		out   []domain.SavedQuery
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := r.readDB.QueryRowContext(gctx,
			"SELECT count(*) FROM saved_queries WHERE "+where, args...,
		).Scan(&total)
		if err != nil {
			return mapDBError(err)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := r.readDB.QueryContext(gctx, `
			SELECT id, name, created_by, dialect, kind, query_json, sql_text, created_at
			FROM saved_queries WHERE `+where+`
			ORDER BY created_at DESC, id DESC
			LIMIT ? OFFSET ?
		`, listArgs...)
		if err != nil {
			return mapDBError(err)
		}
		defer rows.Close() //nolint:errcheck

		for rows.Next() {
			sq, err := scanSavedQuery(rows)
			if err != nil {
				return err
			}
			out = append(out, *sq)
		}
		if err := rows.Err(); err != nil {
			return mapDBError(err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// Delete removes a saved query.
func (r *SavedQueryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.writeDB.ExecContext(ctx, `DELETE FROM saved_queries WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound("saved query %q not found", id)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSavedQuery(s scanner) (*domain.SavedQuery, error) {
	var sq domain.SavedQuery
	err := s.Scan(
		&sq.ID,
		&sq.Name,
		&sq.CreatedBy,
		&sq.Dialect,
		&sq.Kind,
		&sq.QueryJSON,
		&sq.SQLText,
		&sq.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sq, nil
}
