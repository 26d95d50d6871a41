// Package filekv keeps the key-value pairs in a single JSON object file,
// the way a browser keeps its local storage.
package filekv

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core/record"
)

type Store struct {
	mu    sync.RWMutex
	path  string
	table map[string]string
}

var _ record.Store = (*Store)(nil) // interface compliance check

// Open loads the store file at path, creating its directory if needed. A missing file is an empty store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating store directory")
	}
	s := &Store{path: path, table: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "reading store file")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}
	if err = json.Unmarshal(data, &s.table); err != nil {
		return nil, errors.Wrapf(err, "decoding store file %s", path)
	}
	if s.table == nil {
		s.table = make(map[string]string)
	}
	return s, nil
}

// Path returns the location of the store file.
func (s *Store) Path() string { return s.path }

// flush rewrites the whole file through a temp file so a crash never leaves it half written.
// Callers hold the write lock.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.table, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding store")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".cgpa-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "syncing temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replacing store file")
	}
	return nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if val, ok := s.table[key]; ok {
		return val, nil
	}
	return "", record.ErrNotFound
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.table[key]
	s.table[key] = value
	if err := s.flush(); err != nil {
		if existed {
			s.table[key] = prev
		} else {
			delete(s.table, key)
		}
		return err
	}
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[string]string, len(keys))
	for _, key := range keys {
		if val, ok := s.table[key]; ok {
			removed[key] = val
			delete(s.table, key)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := s.flush(); err != nil {
		for key, val := range removed {
			s.table[key] = val
		}
		return err
	}
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.table))
	for key := range s.table {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
