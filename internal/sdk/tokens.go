package sdk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fixed storage keys for session state. Written only by the auth
// service; read by the HTTP client on every request.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserData     = "user_data"
)

// TokenStore is the key-value store holding session tokens and cached
// user data, the client-side analogue of browser local storage.
type TokenStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryTokenStore keeps session state in memory for the process
// lifetime. Safe for concurrent use.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{values: make(map[string]string)}
}

// Get implements TokenStore.
func (s *MemoryTokenStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set implements TokenStore.
func (s *MemoryTokenStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete implements TokenStore.
func (s *MemoryTokenStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FileTokenStore persists session state as a JSON object in a single
// file, written on every mutation. Safe for concurrent use within one
// process; it does not coordinate across processes.
type FileTokenStore struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// NewFileTokenStore opens (or creates) a file-backed token store at path.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	s := &FileTokenStore{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path) //nolint:gosec // path from trusted config
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			return nil, fmt.Errorf("parsing token file: %w", err)
		}
	}
	return s, nil
}

// Get implements TokenStore.
func (s *FileTokenStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set implements TokenStore.
func (s *FileTokenStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

// Delete implements TokenStore.
func (s *FileTokenStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.flushLocked()
}

func (s *FileTokenStore) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// accessToken returns the stored access token, or "" when absent.
func accessToken(s TokenStore) string {
	if s == nil {
		return ""
	}
	token, _ := s.Get(KeyAccessToken)
	return token
}

// clearSession removes all session keys. Best-effort: the first error
// is returned but all keys are attempted.
func clearSession(s TokenStore) error {
	var firstErr error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUserData} {
		if err := s.Delete(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
