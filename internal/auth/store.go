package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fixed entry names, mirroring the keys the original web tool used in browser storage.
const (
	AccessTokenKey  = "access"
	RefreshTokenKey = "refresh"
)

// TokenStore persists named token strings in a JSON file.
//
// Every operation reads the file fresh so concurrent processes (CLI invocation
// while a TUI is open) see each other's writes.
type TokenStore struct {
	path string
	mu   sync.Mutex
}

// NewTokenStore creates a token store backed by the file at path.
// The file is created lazily on first Set.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the backing file location.
func (s *TokenStore) Path() string {
	return s.path
}

// Get returns the token stored under name, or "" when absent.
func (s *TokenStore) Get(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", err
	}
	return entries[name], nil
}

// Set stores value under name.
func (s *TokenStore) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[name] = value
	return s.save(entries)
}

// Remove deletes the entry stored under name. Removing an absent entry is not an error.
func (s *TokenStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	delete(entries, name)
	return s.save(entries)
}

// SetPair stores the access and refresh tokens together, as returned by the token endpoint.
func (s *TokenStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[AccessTokenKey] = access
	entries[RefreshTokenKey] = refresh
	return s.save(entries)
}

// Clear removes both tokens. Used on logout and when an expired token is detected.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	delete(entries, AccessTokenKey)
	delete(entries, RefreshTokenKey)
	return s.save(entries)
}

// load reads the backing file into a map. A missing file yields an empty map.
func (s *TokenStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return entries, nil
}

// save writes the map back with owner-only permissions.
func (s *TokenStore) save(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
