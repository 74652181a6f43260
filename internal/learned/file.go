package learned

// #region imports
import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// #endregion imports

// #region file-store
// FileStore keeps learned knowledge in a single JSON object on disk. Every
// call goes back to the file, so writes from another session are never missed.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path. The file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// #endregion file-store

// #region read
// errNotObject is reported for documents that parse but are not a JSON object.
var errNotObject = errors.New("not a JSON object")

// load reads the whole mapping. A missing file is an empty store; an existing
// file must hold a JSON object, so empty content and null are load errors.
func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, &StoreLoadError{Path: s.path, Err: err}
	}

	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &StoreLoadError{Path: s.path, Err: err}
	}
	if data == nil {
		return nil, &StoreLoadError{Path: s.path, Err: errNotObject}
	}
	return data, nil
}

// Get returns the answer taught for key.
func (s *FileStore) Get(key string) (string, bool, error) {
	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

// List returns all entries sorted by key.
func (s *FileStore) List() ([]Entry, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(data))
	for k, v := range data {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// #endregion read

// #region write
// Put stores value under key, replacing any earlier answer.
func (s *FileStore) Put(key, value string) error {
	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = value
	return s.save(data)
}

// Delete removes key. It reports whether the key was present.
func (s *FileStore) Delete(key string) (bool, error) {
	data, err := s.load()
	if err != nil {
		return false, err
	}
	if _, ok := data[key]; !ok {
		return false, nil
	}
	delete(data, key)
	return true, s.save(data)
}

// save writes the mapping through a temp file and rename so readers never see
// a half-written document.
func (s *FileStore) save(data map[string]string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode learned knowledge: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create learned knowledge dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".learned-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// #endregion write
