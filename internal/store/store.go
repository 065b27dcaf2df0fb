// Package store persists whole JSON documents keyed by name. Each key maps
// to a single file that is loaded and replaced wholesale; there is no
// partial-update surface. Missing or corrupt files read as empty documents.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrUnavailable wraps I/O failures against the backing files. Callers match
// it with errors.Is.
var ErrUnavailable = errors.New("document store unavailable")

// Store is a directory of JSON documents with per-key write serialization.
// Loads and saves of different keys proceed independently.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Open ensures dir exists and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrUnavailable, dir, err)
	}

	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Load reads the document stored under key into out. A missing file or one
// that fails to parse leaves out untouched and returns nil; corruption is
// treated as absence, not failure.
func (s *Store) Load(key string, out interface{}) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: read %s: %v", ErrUnavailable, key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return nil
	}
	return nil
}

// Save replaces the document stored under key. The write goes to a temp file
// in the same directory and is renamed over the target, so a failure mid-write
// never truncates the existing document.
func (s *Store) Save(key string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, key, err)
	}

	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: temp file for %s: %v", ErrUnavailable, key, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close %s: %v", ErrUnavailable, key, err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// WithLock runs fn while holding key's mutex. Callers wrap their
// load-mutate-save cycles in it so two in-flight writers cannot interleave on
// the same document; different keys proceed in parallel.
func (s *Store) WithLock(key string, fn func() error) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}

func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
