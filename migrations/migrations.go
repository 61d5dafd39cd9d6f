// Package migrations embeds the goose SQL migration files so they can be
// applied programmatically at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
