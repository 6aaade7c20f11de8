package repositories

import (
	"database/sql"
	"fmt"
)

// PreferenceRepository stores preference blobs in the preferences table.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new [PreferenceRepository] with the given database connection
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns the value stored under key and whether it exists.
func (r *PreferenceRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query preference %s: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value stored under key.
func (r *PreferenceRepository) Set(key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to store preference %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (r *PreferenceRepository) Remove(key string) error {
	if _, err := r.db.Exec(`DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove preference %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys starting with prefix, sorted.
func (r *PreferenceRepository) Keys(prefix string) ([]string, error) {
	query := `SELECT key FROM preferences WHERE substr(key, 1, length(?)) = ? ORDER BY key`

	rows, err := r.db.Query(query, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan preference key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}
	return keys, nil
}
