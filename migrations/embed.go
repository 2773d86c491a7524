// Package migrations SQL миграции goose, встроенные в бинарник.
package migrations

import "embed"

// FS миграции для обоих диалектов: postgres/ и sqlite/
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
