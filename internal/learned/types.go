package learned

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// #region store
// Store is a durable exact-match mapping from normalized input to a
// user-supplied answer. Get must observe the latest Put, including one made
// by an earlier process.
type Store interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) (bool, error)
	List() ([]Entry, error)
}

// #endregion store

// #region entry
// Entry is one taught correction. TaughtAt is zero for backends that do not
// record it (the JSON file keeps only key -> value).
type Entry struct {
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	TaughtAt time.Time `json:"taught_at,omitempty"`
}

// #endregion entry

// #region normalize
// Normalize produces a learned-knowledge key: surrounding whitespace trimmed
// and the text Unicode case folded.
func Normalize(raw string) string {
	return cases.Fold().String(strings.TrimSpace(raw))
}

// #endregion normalize

// #region store-load-error
// StoreLoadError reports persisted learned knowledge that exists but cannot be read.
type StoreLoadError struct {
	Path string
	Err  error
}

func (e *StoreLoadError) Error() string {
	return fmt.Sprintf("load learned knowledge %s: %v", e.Path, e.Err)
}

func (e *StoreLoadError) Unwrap() error { return e.Err }

// #endregion store-load-error
