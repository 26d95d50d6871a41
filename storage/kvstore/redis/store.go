package rediskv

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/record"
)

// scanCount is the SCAN page size hint.
const scanCount = 100

type Store struct {
	rdb *goredis.Client
}

var _ record.Store = (*Store)(nil) // interface compliance check

// Open connects to redis and pings it.
func Open(conf core.RedisConfig) (*Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", conf.Addr)
	}
	return &Store{rdb: rdb}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", record.ErrNotFound
		}
		return "", wrapErr(err, "redis GET")
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return wrapErr(err, "redis SET")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return wrapErr(err, "redis DEL")
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	seen := make(map[string]struct{})
	iter := s.rdb.Scan(ctx, 0, prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if _, ok := seen[key]; ok { // SCAN may return a key more than once
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return nil, wrapErr(err, "redis SCAN")
	}
	sort.Strings(keys)
	return keys, nil
}

// wrapErr turns a closed client into a shutdown error.
func wrapErr(err error, op string) error {
	if err == goredis.ErrClosed {
		return core.NewShutdownError(op + ": redis client is closed")
	}
	return errors.Wrap(err, op)
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
