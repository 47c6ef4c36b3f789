// Package migrations holds the explanation cache schema, applied in
// version order by the SQLite store.
package migrations

import "embed"

// FS holds the numbered *.up.sql and *.down.sql files.
//
//go:embed *.sql
var FS embed.FS
