package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codekitchen-community/pages/internal/pagestate"
)

// GetPreference returns the stored value for key in session.
func (d *DB) GetPreference(session, key string) (string, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var value string
	err := d.QueryRow(
		`SELECT value FROM preferences WHERE session_id = ? AND key = ?`,
		session, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading preference %s: %w", key, err)
	}
	return value, true, nil
}

// SetPreference stores value for key in session, replacing any previous one.
func (d *DB) SetPreference(session, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.Exec(`
		INSERT INTO preferences (session_id, key, value, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(session_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		session, key, value,
	)
	if err != nil {
		return fmt.Errorf("writing preference %s: %w", key, err)
	}
	return nil
}

// SessionPreferences returns every stored key for session.
func (d *DB) SessionPreferences(session string) (map[string]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.Query(`SELECT key, value FROM preferences WHERE session_id = ? ORDER BY key`, session)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		prefs[k] = v
	}
	return prefs, rows.Err()
}

// PrunePreferences deletes rows that have not been written since before.
func (d *DB) PrunePreferences(before time.Time) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.Exec(`DELETE FROM preferences WHERE updated_at < ?`,
		before.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("pruning preferences: %w", err)
	}
	return res.RowsAffected()
}

// PreferenceKV adapts one session's rows to pagestate.KV.
type PreferenceKV struct {
	db      *DB
	session string
}

// PreferenceKV returns the key-value view of session.
func (d *DB) PreferenceKV(session string) *PreferenceKV {
	return &PreferenceKV{db: d, session: session}
}

func (p *PreferenceKV) Get(key string) (string, bool, error) {
	return p.db.GetPreference(p.session, key)
}

func (p *PreferenceKV) Set(key, value string) error {
	return p.db.SetPreference(p.session, key, value)
}

var _ pagestate.KV = (*PreferenceKV)(nil)
