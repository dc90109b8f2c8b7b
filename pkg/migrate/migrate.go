// Package migrate applies versioned SQL schema changes to a database and
// records the applied version alongside the schema.
package migrate

import (
	"database/sql"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Latest asks MigrateTo for the newest available version
const Latest = -1

// Migration is one schema version with the SQL that applies and reverts it
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// MigrationProvider lists the available migrations and tracks the applied version
type MigrationProvider interface {
	GetMigrations() ([]Migration, error)
	CreateMigrationTable(db *sql.DB) error
	GetCurrentVersion(db *sql.DB) (int, error)
	SetVersion(tx *sql.Tx, version int) error
}

// Migrator moves a database between schema versions, one transaction per migration
type Migrator struct {
	db       *sql.DB
	provider MigrationProvider
	logger   *zap.SugaredLogger
}

// NewMigrator creates a new migrator instance. A nil logger discards output.
func NewMigrator(db *sql.DB, provider MigrationProvider, logger *zap.SugaredLogger) *Migrator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Migrator{
		db:       db,
		provider: provider,
		logger:   logger,
	}
}

// MigrateUp applies every pending migration
func (m *Migrator) MigrateUp() error {
	return m.MigrateTo(Latest)
}

// MigrateDown reverts migrations until target is the applied version.
// target must be below the current version.
func (m *Migrator) MigrateDown(target int) error {
	current, err := m.GetCurrentVersion()
	if err != nil {
		return err
	}
	if target >= current {
		return fmt.Errorf("target version %d must be less than current version %d", target, current)
	}
	return m.MigrateTo(target)
}

// MigrateTo applies or reverts migrations until target is the applied
// version. Latest resolves to the highest available migration.
func (m *Migrator) MigrateTo(target int) error {
	current, err := m.GetCurrentVersion()
	if err != nil {
		return err
	}

	migrations, err := m.provider.GetMigrations()
	if err != nil {
		return fmt.Errorf("failed to get migrations: %w", err)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	if target == Latest {
		target = 0
		if len(migrations) > 0 {
			target = migrations[len(migrations)-1].Version
		}
	}

	if target >= current {
		for _, mig := range migrations {
			if mig.Version > current && mig.Version <= target {
				if err := m.apply(mig, mig.Up, mig.Version, "up"); err != nil {
					return fmt.Errorf("failed to apply migration %d: %w", mig.Version, err)
				}
			}
		}
		return nil
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		mig := migrations[i]
		if mig.Version > target && mig.Version <= current {
			if err := m.apply(mig, mig.Down, mig.Version-1, "down"); err != nil {
				return fmt.Errorf("failed to roll back migration %d: %w", mig.Version, err)
			}
		}
	}
	return nil
}

// GetCurrentVersion returns the applied version, 0 for a fresh database
func (m *Migrator) GetCurrentVersion() (int, error) {
	if err := m.provider.CreateMigrationTable(m.db); err != nil {
		return 0, err
	}
	return m.provider.GetCurrentVersion(m.db)
}

// GetPendingMigrations returns the migrations above the applied version in order
func (m *Migrator) GetPendingMigrations() ([]Migration, error) {
	current, err := m.GetCurrentVersion()
	if err != nil {
		return nil, err
	}

	migrations, err := m.provider.GetMigrations()
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range migrations {
		if mig.Version > current {
			pending = append(pending, mig)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Version < pending[j].Version
	})
	return pending, nil
}

// apply runs stmt and records version in one transaction
func (m *Migrator) apply(mig Migration, stmt string, version int, direction string) error {
	if stmt == "" {
		return fmt.Errorf("migration %d has no %s SQL", mig.Version, direction)
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}
	if err := m.provider.SetVersion(tx, version); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	m.logger.Infow("applied migration", "version", mig.Version, "name", mig.Name, "direction", direction)
	return nil
}
