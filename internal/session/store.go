package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the bearer token in a single file named "token" under the
// user's config directory. It also satisfies api.TokenSource.
type FileStore struct {
	path string
}

// NewFileStore resolves the default token location, creating the config
// directory when missing.
func NewFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, "student-productivity-app")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, "token")}, nil
}

// NewFileStoreAt creates a store backed by an explicit file path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// Token returns the stored token, empty when absent or unreadable.
func (f *FileStore) Token() string {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save writes the token with owner-only permissions.
func (f *FileStore) Save(token string) error {
	return os.WriteFile(f.path, []byte(token), 0o600)
}

// Clear removes the token file. A missing file is not an error.
func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
