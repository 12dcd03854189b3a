// Package migrations embeds the SQL schema migrations so the binaries carry them.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files applied by golang-migrate
//
//go:embed *.sql
var FS embed.FS
