// Package migrations embeds the vault schema migration files.
package migrations

import "embed"

// FS holds the .sql migration files, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
