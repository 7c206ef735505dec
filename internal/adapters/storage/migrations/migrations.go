// Package migrations embeds the ordered SQL schema migrations.
package migrations

import "embed"

// FS holds the NNNN_name.sql files applied by storage.MigrateDB.
//
//go:embed *.sql
var FS embed.FS
