// Package repository implements domain repository interfaces using SQLite.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"querycanvas/internal/domain"
)

// mapDBError lifts driver errors into the domain's typed errors so the API
// layer can pick status codes without knowing about SQLite.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "saved query not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "saved query already exists"}
	}
	return err
}
