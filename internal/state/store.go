// Package state implements contact persistence to a JSON file.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/smileynet/contacts/internal/contact"
)

// ErrInvalidPath indicates the store path is empty or names a directory.
var ErrInvalidPath = errors.New("state: invalid path")

// FileStore persists contacts as a JSON array in a single file.
// It is safe for concurrent use within one process, not across processes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// record is the on-disk form of a contact. Pointer fields let a hand-edited
// file express a missing value, which List rejects.
type record struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

// List reads every stored contact in insertion order.
// A missing file yields an empty list.
func (s *FileStore) List() ([]contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

func (s *FileStore) list() ([]contact.Contact, error) {
	if err := s.checkPath(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []contact.Contact{}, nil
		}
		return nil, fmt.Errorf("state: reading %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return []contact.Contact{}, nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("state: parsing %s: %w", s.path, err)
	}

	contacts := make([]contact.Contact, 0, len(records))
	for i, r := range records {
		c, err := contact.New(r.FirstName, r.LastName, r.PhoneNumber)
		if err != nil {
			return nil, fmt.Errorf("state: %s entry %d: %w", s.path, i, err)
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// Append adds c to the end of the stored list.
func (s *FileStore) Append(c contact.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contacts, err := s.list()
	if err != nil {
		return err
	}
	return s.write(append(contacts, c))
}

// write replaces the file contents atomically via a temp file and rename.
func (s *FileStore) write(contacts []contact.Contact) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: creating directory: %w", err)
	}

	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshaling: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("state: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("state: writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("state: closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("state: writing %s: %w", s.path, err)
	}
	return nil
}

// checkPath rejects empty paths and paths that point at a directory.
func (s *FileStore) checkPath() error {
	if s.path == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if info, err := os.Stat(s.path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, s.path)
	}
	return nil
}
