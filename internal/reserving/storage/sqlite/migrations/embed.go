package migrations

import "embed"

// FS contains embedded SQLite migrations for generated datasets.
//
//go:embed *.sql
var FS embed.FS
