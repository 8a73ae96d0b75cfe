// path: internal/storage/sqlite/migrations/embed.go
package migrations

import "embed"

// FS contains the embedded SQLite migrations for match storage.
//
//go:embed *.sql
var FS embed.FS
