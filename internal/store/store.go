// Package store provides the flat-file JSON user store. The whole document
// is read before every access and rewritten after every mutation; a single
// mutex serializes the read-modify-write cycle so concurrent mutations to
// different users never lose updates. The external contract is "last full
// write wins".
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store manages the JSON user database.
type Store struct {
	mu   sync.Mutex
	path string
}

type document struct {
	Users map[string]UserRecord `json:"users"`
}

// Open prepares a store at the given path. The file itself is created on
// the first write; a missing file reads as an empty user map.
func Open(path string) (*Store, error) {
	// Expand ~ to home directory
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("store: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: cannot create directory %s: %w", dir, err)
	}

	return &Store{path: path}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// User returns the record for the given identity, creating and persisting
// a default record if none exists yet.
func (s *Store) User(id string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return UserRecord{}, err
	}

	if u, ok := doc.Users[id]; ok {
		return u, nil
	}

	u := NewUserRecord()
	doc.Users[id] = u
	if err := s.save(doc); err != nil {
		return UserRecord{}, err
	}
	return u, nil
}

// Update applies fn to the record for id under the store lock and writes
// the whole document back. The record is created with defaults first if
// absent. If fn returns an error nothing is written.
func (s *Store) Update(id string, fn func(*UserRecord) error) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return UserRecord{}, err
	}

	u, ok := doc.Users[id]
	if !ok {
		u = NewUserRecord()
	}

	if err := fn(&u); err != nil {
		return UserRecord{}, err
	}

	doc.Users[id] = u
	if err := s.save(doc); err != nil {
		return UserRecord{}, err
	}
	return u, nil
}

func (s *Store) load() (*document, error) {
	doc := &document{Users: make(map[string]UserRecord)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: cannot read %s: %w", s.path, err)
	}

	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("store: cannot parse %s: %w", s.path, err)
	}
	if doc.Users == nil {
		doc.Users = make(map[string]UserRecord)
	}
	return doc, nil
}

func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: cannot encode database: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("store: cannot write %s: %w", s.path, err)
	}
	return nil
}
