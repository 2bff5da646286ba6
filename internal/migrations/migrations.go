// Package migrations embeds the versioned Postgres schema applied by cmd/migrate
// and, when configured, by the server at startup.
package migrations

import "embed"

// Dir is the directory inside FS that holds the migration files.
const Dir = "sql"

// FS holds the up and down migrations in golang-migrate naming.
//
//go:embed sql/*.sql
var FS embed.FS
