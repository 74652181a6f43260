package learned

// #region imports
import (
	"database/sql"
	"fmt"
	"time"
)

// #endregion imports

// #region store
// SQLiteStore keeps learned knowledge in the learned_knowledge table of the
// shared responder database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the learned_knowledge table if needed and returns a store.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS learned_knowledge (
		key       TEXT PRIMARY KEY,
		value     TEXT NOT NULL,
		taught_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create learned_knowledge: %w", err)
	}
	return nil
}

// #endregion store

// #region get
// Get returns the answer taught for key.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM learned_knowledge WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get learned %q: %w", key, err)
	}
	return value, true, nil
}

// #endregion get

// #region put
// Put upserts key; the last write wins.
func (s *SQLiteStore) Put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO learned_knowledge (key, value, taught_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, taught_at = excluded.taught_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put learned %q: %w", key, err)
	}
	return nil
}

// #endregion put

// #region delete
// Delete removes key and reports whether it existed.
func (s *SQLiteStore) Delete(key string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM learned_knowledge WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("delete learned %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete learned %q: %w", key, err)
	}
	return n > 0, nil
}

// #endregion delete

// #region list
// List returns every entry ordered by key.
func (s *SQLiteStore) List() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT key, value, taught_at FROM learned_knowledge ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list learned: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var taughtAt string
		if err := rows.Scan(&e.Key, &e.Value, &taughtAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.TaughtAt, _ = time.Parse(time.RFC3339Nano, taughtAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion list
