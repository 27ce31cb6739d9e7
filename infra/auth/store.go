package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

// FileStore persists the login token and username as a small JSON file.
// Both values are always written, and removed, together.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

// Load reads the stored credentials. A missing file means nobody is logged in
// and yields empty credentials without error.
func (f *FileStore) Load() (domain.Credentials, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Credentials{}, nil
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("reading credentials from %s: %w", f.path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return domain.Credentials{}, nil
	}

	var creds domain.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return domain.Credentials{}, fmt.Errorf("parsing credentials file %s: %w", f.path, err)
	}
	creds.Token = strings.TrimSpace(creds.Token)
	creds.Username = strings.TrimSpace(creds.Username)
	return creds, nil
}

// Save writes both values, replacing whatever was stored before.
func (f *FileStore) Save(creds domain.Credentials) error {
	if creds.Empty() {
		return errors.New("refusing to store incomplete credentials")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	// Write to a sibling and rename so a crash never leaves half a file.
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("creating temp credentials file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("securing credentials file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("storing credentials at %s: %w", f.path, err)
	}
	return nil
}

// Clear removes the stored credentials. Clearing an empty store is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing credentials %s: %w", f.path, err)
	}
	return nil
}
