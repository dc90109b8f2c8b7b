package config

import (
	"database/sql"
	"embed"

	"github.com/chrissnell/hymod/pkg/migrate"
	"go.uber.org/zap"
)

// MigrationTable tracks the applied schema version of a SQLite configuration database
const MigrationTable = "config_migrations"

//go:embed migrations/*.sql
var migrations embed.FS

// NewMigrator returns a migrator for the SQLite configuration schema
func NewMigrator(db *sql.DB, logger *zap.SugaredLogger) *migrate.Migrator {
	return migrate.NewMigrator(db, migrate.NewFSProvider(migrations, "migrations", MigrationTable), logger)
}
