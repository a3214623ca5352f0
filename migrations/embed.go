// Package migrations embeds the schema migrations of both storage drivers.
package migrations

import "embed"

//go:embed postgres/*.sql
var PostgresFS embed.FS

//go:embed sqlite/*.sql
var SQLiteFS embed.FS
