package inmemkv

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/cgpa/core/record"
)

type store struct {
	db *kvTable
}

var _ record.Store = (*store)(nil) // interface compliance check

func NewStore(db *DB) record.Store {
	return &store{db: db.kv}
}

func (s *store) Get(_ context.Context, key string) (string, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	if val, ok := s.db.table[key]; ok {
		return val, nil
	}
	return "", record.ErrNotFound
}

func (s *store) Set(_ context.Context, key, value string) error {
	s.db.Lock()
	defer s.db.Unlock()
	s.db.table[key] = value
	return nil
}

func (s *store) Delete(_ context.Context, keys ...string) error {
	s.db.Lock()
	defer s.db.Unlock()
	for _, key := range keys {
		delete(s.db.table, key)
	}
	return nil
}

func (s *store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.db.RLock()
	defer s.db.RUnlock()

	keys := make([]string, 0, len(s.db.table))
	for key := range s.db.table {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
