package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
)

// Store is a mutable key/value settings store backed by a flat JSON file.
//
// Every operation reloads the file from disk under a single lock, so the
// store has no in-memory cache and last-writer-wins semantics. This matches
// the read-modify-write discipline of the settings file shared with the
// tray shell.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a settings store backed by the JSON file at path.
// The file and its parent directory are created on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStorePath returns the default settings file location,
// ~/.config/waid/settings.json.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".config", "waid", "settings.json"), nil
}

// Get returns the value stored under key, or nil when the key is absent.
func (s *Store) Get(key string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	if err != nil {
		return nil, err
	}
	return settings[key], nil
}

// GetString returns the string value stored under key, or fallback when the
// key is absent or holds a non-string value.
func (s *Store) GetString(key, fallback string) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return fallback, nil
	}
	return str, nil
}

// Set stores value under key and persists the whole file.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	if err != nil {
		return err
	}
	settings[key] = value
	return s.save(settings)
}

// Delete removes key from the store. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := settings[key]; !ok {
		return nil
	}
	delete(settings, key)
	return s.save(settings)
}

// load reads the settings file, creating an empty map when it doesn't exist.
// Callers must hold s.mu.
func (s *Store) load() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, errors.Wrapf(err, "failed to read settings file %q", s.path)
	}

	settings := map[string]any{}
	if len(data) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, errors.Wrapf(err, "failed to parse settings file %q", s.path)
	}
	return settings, nil
}

// save writes the settings map back to disk. Callers must hold s.mu.
func (s *Store) save(settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create settings directory for %q", s.path)
	}

	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal settings")
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write settings file %q", s.path)
	}
	return nil
}
