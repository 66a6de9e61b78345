// Package migrations embeds the goose SQL migrations for the workflow
// schema: users, uploads and the config key/value table.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
