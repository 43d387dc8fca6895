package db

import "embed"

// EmbedMigrations holds the saved-query store's SQL migrations.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
