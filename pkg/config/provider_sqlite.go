package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// InitSchema brings the configuration schema up to the latest migration
func (s *SQLiteProvider) InitSchema() error {
	if err := NewMigrator(s.db, nil).MigrateUp(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	catchments, err := s.GetCatchments()
	if err != nil {
		return nil, fmt.Errorf("failed to load catchments: %w", err)
	}

	config := &ConfigData{Catchments: catchments}
	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// GetCatchments returns catchment configurations from the database
func (s *SQLiteProvider) GetCatchments() ([]CatchmentData, error) {
	query := `
		SELECT id, name, time_unit, max_storage, a, b, ks, kq, n,
		       storage, groundwater_storage, dt, input_flux
		FROM catchments
		ORDER BY id
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catchments: %w", err)
	}
	defer rows.Close()

	var ids []int64
	var catchments []CatchmentData
	for rows.Next() {
		var id int64
		var c CatchmentData
		err := rows.Scan(
			&id, &c.Name, &c.TimeUnit,
			&c.Params.MaxStorage, &c.Params.A, &c.Params.B,
			&c.Params.Ks, &c.Params.Kq, &c.Params.N,
			&c.State.Storage, &c.State.GroundwaterStorage,
			&c.Step.DT, &c.Step.InputFlux,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catchment: %w", err)
		}
		ids = append(ids, id)
		catchments = append(catchments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catchments: %w", err)
	}

	for i, id := range ids {
		sr, err := s.getReservoirStorages(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load reservoir storages for %s: %w", catchments[i].Name, err)
		}
		catchments[i].State.Sr = sr
	}

	return catchments, nil
}

func (s *SQLiteProvider) getReservoirStorages(catchmentID int64) ([]float64, error) {
	rows, err := s.db.Query(`SELECT storage FROM reservoir_storages WHERE catchment_id = ? ORDER BY stage`, catchmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sr := []float64{}
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		sr = append(sr, v)
	}
	return sr, rows.Err()
}

// GetCatchment retrieves a specific catchment by name
func (s *SQLiteProvider) GetCatchment(name string) (*CatchmentData, error) {
	catchments, err := s.GetCatchments()
	if err != nil {
		return nil, err
	}
	for i := range catchments {
		if catchments[i].Name == name {
			return &catchments[i], nil
		}
	}
	return nil, fmt.Errorf("catchment %s not found", name)
}

// IsReadOnly returns false since SQLite supports write operations
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	if err := Validate(configData); err != nil {
		return err
	}

	// Start transaction
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Clear existing data
	for _, query := range []string{"DELETE FROM reservoir_storages", "DELETE FROM catchments"} {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to clear existing config: %w", err)
		}
	}

	for i := range configData.Catchments {
		c := &configData.Catchments[i]
		if err := s.insertCatchment(tx, c); err != nil {
			return fmt.Errorf("failed to insert catchment %s: %w", c.Name, err)
		}
	}

	return tx.Commit()
}

// AddCatchment adds a new catchment to the configuration
func (s *SQLiteProvider) AddCatchment(c *CatchmentData) error {
	if _, err := s.GetCatchment(c.Name); err == nil {
		return fmt.Errorf("catchment %s already exists", c.Name)
	}
	if err := Validate(&ConfigData{Catchments: []CatchmentData{*c}}); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.insertCatchment(tx, c); err != nil {
		return fmt.Errorf("failed to insert catchment: %w", err)
	}

	return tx.Commit()
}

// DeleteCatchment removes a catchment and its reservoir storages
func (s *SQLiteProvider) DeleteCatchment(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reservoir_storages WHERE catchment_id IN (SELECT id FROM catchments WHERE name = ?)`, name); err != nil {
		return fmt.Errorf("failed to delete reservoir storages: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM catchments WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete catchment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("catchment %s not found", name)
	}

	return tx.Commit()
}

func (s *SQLiteProvider) insertCatchment(tx *sql.Tx, c *CatchmentData) error {
	query := `
		INSERT INTO catchments (name, time_unit, max_storage, a, b, ks, kq, n,
		                        storage, groundwater_storage, dt, input_flux,
		                        created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))
	`
	result, err := tx.Exec(query,
		c.Name, c.TimeUnit,
		c.Params.MaxStorage, c.Params.A, c.Params.B, c.Params.Ks, c.Params.Kq, c.Params.N,
		c.State.Storage, c.State.GroundwaterStorage,
		c.Step.DT, c.Step.InputFlux,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for stage, v := range c.State.Sr {
		if _, err := tx.Exec(`INSERT INTO reservoir_storages (catchment_id, stage, storage) VALUES (?, ?, ?)`, id, stage, v); err != nil {
			return fmt.Errorf("stage %d: %w", stage, err)
		}
	}
	return nil
}
