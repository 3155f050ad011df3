// Package migrations embeds the SQL migration files so the goose
// programmatic API can run them at server bootstrap and in integration
// tests without a filesystem path.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
