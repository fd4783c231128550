// Package migrations carries the fishing log schema as embedded goose SQL
// files, so neither the server boot path nor the integration tests depend on
// a migrations directory existing on disk.
package migrations

import "embed"

// FS is the embedded set of *.sql migration files. Hand it to a goose
// provider (see cmd/api and the repo integration TestMain) to apply them.
//
//go:embed *.sql
var FS embed.FS
