// Package migrations embeds the SQL migration files so the server and the
// integration tests can apply them with goose's provider API.
package migrations

import "embed"

// FS holds all *.sql migration files.
//
//go:embed *.sql
var FS embed.FS
