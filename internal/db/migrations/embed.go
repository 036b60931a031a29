// Package migrations holds the goose migrations for each supported dialect.
package migrations

import "embed"

// FS contains postgres/*.sql and sqlite/*.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
