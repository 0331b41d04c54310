package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/syndtr/goleveldb/leveldb"

	apperrors "github.com/mahamusharaf/vastr-storefront/pkg/errors"
)

// LevelDB is a Store backed by an embedded goleveldb database on the device
// filesystem.
type LevelDB struct {
	db     *leveldb.DB
	logger *slog.Logger
}

// OpenLevelDB opens (or creates) the database at the given path.
func OpenLevelDB(path string, logger *slog.Logger) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb at %s: %w", path, err)
	}
	return &LevelDB{db: db, logger: logger}, nil
}

// Get reads and decodes the value stored under key into dest.
func (s *LevelDB) Get(ctx context.Context, key string, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return notFound(key)
		}
		return apperrors.StorageFailure("get "+key, err)
	}

	if err := decode(data, dest); err != nil {
		s.logger.Warn("stored value is unreadable",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return apperrors.StorageFailure("decode "+key, err)
	}
	return nil
}

// Set encodes value and writes it under key, overwriting any previous value.
func (s *LevelDB) Set(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(value)
	if err != nil {
		return apperrors.StorageFailure("encode "+key, err)
	}

	if err := s.db.Put([]byte(key), data, nil); err != nil {
		return apperrors.StorageFailure("set "+key, err)
	}
	return nil
}

// Remove deletes the value under key. Removing an absent key is not an error.
func (s *LevelDB) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.Delete([]byte(key), nil); err != nil {
		return apperrors.StorageFailure("remove "+key, err)
	}
	return nil
}

// Close releases the underlying database.
func (s *LevelDB) Close() error {
	return s.db.Close()
}
