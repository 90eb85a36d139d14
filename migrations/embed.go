// Package migrations embeds the SQL schema so the binary can migrate a
// fresh database on its own.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
