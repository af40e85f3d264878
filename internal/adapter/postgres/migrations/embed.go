// Package migrations holds the goose migrations of the PostgreSQL schema.
package migrations

import "embed"

// FS contains every migration file, at its root.
//
//go:embed *.sql
var FS embed.FS
