package client

import (
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the single bearer credential across runs. Get treats
// any read failure as absence; Clear is idempotent.
type TokenStore interface {
	Get() string
	Set(token string) error
	Clear() error
}

// FileTokenStore keeps the credential in a single file with 0600 permissions.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore constructs a FileTokenStore at the given path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Get returns the stored credential, or "" when none is stored.
func (s *FileTokenStore) Get() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Set persists the credential, overwriting any prior value.
func (s *FileTokenStore) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Clear removes the stored credential.
func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemTokenStore is an in-memory TokenStore for tests.
type MemTokenStore struct {
	token string
}

func (s *MemTokenStore) Get() string { return s.token }

func (s *MemTokenStore) Set(token string) error {
	s.token = token
	return nil
}

func (s *MemTokenStore) Clear() error {
	s.token = ""
	return nil
}

var (
	_ TokenStore = (*FileTokenStore)(nil)
	_ TokenStore = (*MemTokenStore)(nil)
)
