// Package migrations embeds the SQL schema migrations applied by goose at
// startup when the postgres store backend is selected.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
