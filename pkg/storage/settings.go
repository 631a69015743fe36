package storage

import (
	"fmt"
	"sync"
)

// APIKeySetting is the settings key holding the review API key.
const APIKeySetting = "apiKey"

// SettingsStore is a namespaced key-value record persisted under .tabcrusher.
// Every Set is written through, so a later Get or a new store sees the value.
type SettingsStore struct {
	repo   *FilesystemRepository
	mu     sync.Mutex
	values map[string]string
	loaded bool
}

// NewSettingsStore creates a store backed by repo.
func NewSettingsStore(repo *FilesystemRepository) *SettingsStore {
	return &SettingsStore{repo: repo}
}

func (s *SettingsStore) load() error {
	if s.loaded {
		return nil
	}
	values, err := s.repo.LoadSettings()
	if err != nil {
		return err
	}
	s.values = values
	s.loaded = true
	return nil
}

// Get returns the value for key and whether it was present.
func (s *SettingsStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return "", false, err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key and persists the record.
func (s *SettingsStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	next := s.cloneValues()
	next[key] = value
	if err := s.repo.SaveSettings(next); err != nil {
		return fmt.Errorf("save setting %q: %w", key, err)
	}
	s.values = next
	return nil
}

// Delete removes key and persists the record.
func (s *SettingsStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	next := s.cloneValues()
	delete(next, key)
	if err := s.repo.SaveSettings(next); err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	s.values = next
	return nil
}

// cloneValues copies the record so a failed save leaves memory matching disk.
func (s *SettingsStore) cloneValues() map[string]string {
	next := make(map[string]string, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	return next
}

// LoadAPIKey returns the saved credential. An empty saved value counts as absent.
func (s *SettingsStore) LoadAPIKey() (string, bool, error) {
	v, ok, err := s.Get(APIKeySetting)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}

// SaveAPIKey persists the credential.
func (s *SettingsStore) SaveAPIKey(key string) error {
	return s.Set(APIKeySetting, key)
}
