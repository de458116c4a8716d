package config

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

const settingsSchema = `
	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)
`

// SQLiteProvider implements ConfigProvider for a SQLite settings table.
// Each row holds one configuration key with a JSON-encoded value.
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

	if _, err := db.Exec(settingsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create settings table: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig overlays the stored settings on Defaults. Keys the struct
// does not know are ignored.
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan settings row: %w", err)
		}
		if !json.Valid([]byte(value)) {
			return nil, fmt.Errorf("setting %q holds invalid JSON", key)
		}
		stored[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	cfg := Defaults()
	if len(stored) == 0 {
		return cfg, nil
	}

	merged, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to merge settings: %w", err)
	}
	if err := json.Unmarshal(merged, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return cfg, nil
}

// SaveConfig stores every key of cfg in a single transaction.
func (s *SQLiteProvider) SaveConfig(cfg *ConfigData) error {
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &values); err != nil {
		return fmt.Errorf("failed to split config: %w", err)
	}

	// Start transaction
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		if err := upsertSetting(tx, key, value); err != nil {
			return err
		}
	}

	// Commit transaction
	return tx.Commit()
}

// set stores a single key. value is encoded as JSON.
func (s *SQLiteProvider) set(key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %q: %w", key, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertSetting(tx, key, encoded); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertSetting(tx *sql.Tx, key string, value []byte) error {
	_, err := tx.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to store setting %q: %w", key, err)
	}
	return nil
}

// Exists reports whether any setting has been stored.
func (s *SQLiteProvider) Exists() (bool, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count settings: %w", err)
	}
	return count > 0, nil
}

// Path returns the database file name.
func (s *SQLiteProvider) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
