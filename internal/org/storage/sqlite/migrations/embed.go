// Package migrations contains embedded SQL migrations for the SQLite stores.
package migrations

import "embed"

//go:embed journal/*.sql
var JournalFS embed.FS

//go:embed readmodel/*.sql
var ReadModelFS embed.FS
