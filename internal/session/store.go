// Package session persists small values across CLI invocations, the way the
// browser storefront keeps the logged-in administrator in local storage.
//
// A Store is a single JSON object on disk mapping keys to raw JSON values.
// Writes replace the file atomically.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
)

// UserKey is the key the login payload is stored under.
const UserKey = "user"

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("session key not found")

// Store is a file-backed key/value store.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store backed by the file at path. The file is created
// on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the per-user location of the session file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "user config dir")
	}
	return filepath.Join(dir, "otamanga", "session.json"), nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the raw JSON value stored under key.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	v, ok := m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// Put stores value under key. value must be valid JSON.
func (s *Store) Put(key string, value []byte) error {
	if !json.Valid(value) {
		return errors.Errorf("value for %q is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = json.RawMessage(value)
	return s.save(m)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.save(m)
}

func (s *Store) load() (map[string]json.RawMessage, error) {
	m := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read session file")
	}
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "decode session file")
	}
	return m, nil
}

func (s *Store) save(m map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode session file")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replace session file")
	}
	return nil
}
