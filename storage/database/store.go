package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core/record"
)

type store struct {
	db *sqlx.DB
}

var _ record.Store = (*store)(nil) // interface compliance check

// NewStore returns a record.Store backed by the kv_entry table.
func NewStore(db *sqlx.DB) record.Store {
	return &store{db: db}
}

func (s *store) Get(ctx context.Context, key string) (string, error) {
	var val string
	err := s.db.GetContext(ctx, &val, `SELECT value FROM kv_entry WHERE key = $1`, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", record.ErrNotFound
		}
		return "", errors.Wrap(err, "selecting kv entry")
	}
	return val, nil
}

func (s *store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_entry (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return errors.Wrap(err, "upserting kv entry")
	}
	return nil
}

func (s *store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entry WHERE key = ANY($1)`, pq.Array(keys)); err != nil {
		return errors.Wrap(err, "deleting kv entries")
	}
	return nil
}

func (s *store) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := s.db.SelectContext(ctx, &keys,
		`SELECT key FROM kv_entry WHERE left(key, char_length($1)) = $1 ORDER BY key`, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "selecting kv keys")
	}
	return keys, nil
}
