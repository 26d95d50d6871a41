package kvstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/record"
	"github.com/trezcool/cgpa/storage/database"
	"github.com/trezcool/cgpa/storage/kvstore/file"
	"github.com/trezcool/cgpa/storage/kvstore/inmem"
	"github.com/trezcool/cgpa/storage/kvstore/redis"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Closer releases a store's resources.
type Closer func() error

func nopCloser() error { return nil }

// Open returns the record store selected by conf.Store.Driver.
// The postgres driver creates the database if needed and applies pending migrations.
func Open(ctx context.Context, conf *core.Config) (record.Store, Closer, error) {
	switch conf.Store.Driver {
	case DriverMemory, "":
		db, err := inmemkv.Open()
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening memory store")
		}
		return inmemkv.NewStore(db), nopCloser, nil

	case DriverFile:
		s, err := filekv.Open(conf.Store.Path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening file store")
		}
		return s, nopCloser, nil

	case DriverRedis:
		s, err := rediskv.Open(conf.Redis)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening redis store")
		}
		return s, s.Close, nil

	case DriverPostgres:
		if err := database.CreateIfNotExist(ctx, conf.Database); err != nil {
			return nil, nil, errors.Wrap(err, "creating database")
		}
		db, err := database.Open(conf.Database)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening database")
		}
		if err = database.Ping(ctx, db, 10); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err = database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, errors.Wrap(err, "migrating database")
		}
		return database.NewStore(db), db.Close, nil
	}
	return nil, nil, errors.Wrapf(ErrUnknownDriver, "%q", conf.Store.Driver)
}
