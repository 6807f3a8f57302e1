package repositories

import (
	"database/sql"
	"fmt"
)

// KVRepository is the persistent key-value store the report sheets, collapsed
// maps and export ranges are saved through. Payloads are opaque strings
// (JSON-encoded by the callers). Read-your-own-writes within a session;
// last-write-wins across sessions.
type KVRepository interface {
	GetString(key string) (string, bool, error)
	SetString(key, value string) error
	Remove(key string) error
}

// kvRepository implements KVRepository interface
type kvRepository struct {
	db *sql.DB
}

// NewKVRepository creates a new key-value repository
func NewKVRepository(db *sql.DB) KVRepository {
	return &kvRepository{db: db}
}

// GetString retrieves the payload for a key; the bool reports presence
func (r *kvRepository) GetString(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return value, true, nil
}

// SetString stores a payload under a key, replacing any previous value
func (r *kvRepository) SetString(key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	return nil
}

// Remove deletes a key; removing a missing key is not an error
func (r *kvRepository) Remove(key string) error {
	if _, err := r.db.Exec(`DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}
