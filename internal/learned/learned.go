package learned

// #region imports
import (
	"database/sql"
	"fmt"
	"sort"
)

// #endregion imports

// #region backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend. path is used by the JSON backend, db by
// the SQLite backend.
func Open(backend, path string, db *sql.DB) (Store, error) {
	switch backend {
	case BackendJSON, "":
		if path == "" {
			return nil, fmt.Errorf("learned store: json backend needs a path")
		}
		return NewFileStore(path), nil
	case BackendSQLite:
		if db == nil {
			return nil, fmt.Errorf("learned store: sqlite backend needs a database")
		}
		return NewSQLiteStore(db)
	default:
		return nil, fmt.Errorf("learned store: unknown backend %q", backend)
	}
}

// Check reads the whole store once so corrupt data is reported at startup
// rather than on the first turn. It returns the number of entries.
func Check(s Store) (int, error) {
	entries, err := s.List()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// #endregion backends

// #region memory-store
// MemoryStore is a process-local Store for fixtures and tests.
type MemoryStore struct {
	data map[string]string
}

// NewMemoryStore returns a store seeded with a copy of initial.
func NewMemoryStore(initial map[string]string) *MemoryStore {
	data := make(map[string]string, len(initial))
	for k, v := range initial {
		data[k] = v
	}
	return &MemoryStore{data: data}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Put(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) (bool, error) {
	_, ok := m.data[key]
	delete(m.data, key)
	return ok, nil
}

func (m *MemoryStore) List() ([]Entry, error) {
	entries := make([]Entry, 0, len(m.data))
	for k, v := range m.data {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// #endregion memory-store
