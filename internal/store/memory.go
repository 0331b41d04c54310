package store

import (
	"context"
	"sync"

	apperrors "github.com/mahamusharaf/vastr-storefront/pkg/errors"
)

// Memory is an in-memory Store used by tests and previews. It shares the
// envelope encoding with LevelDB so migration behavior is exercised the
// same way, and supports error injection for failure-path tests.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte

	// Error injection; when non-nil the corresponding operation fails.
	GetErr    error
	SetErr    error
	RemoveErr error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get reads and decodes the value stored under key into dest.
func (s *Memory) Get(ctx context.Context, key string, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.GetErr != nil {
		return apperrors.StorageFailure("get "+key, s.GetErr)
	}

	data, ok := s.data[key]
	if !ok {
		return notFound(key)
	}
	if err := decode(data, dest); err != nil {
		return apperrors.StorageFailure("decode "+key, err)
	}
	return nil
}

// Set encodes value and stores it under key.
func (s *Memory) Set(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SetErr != nil {
		return apperrors.StorageFailure("set "+key, s.SetErr)
	}

	data, err := encode(value)
	if err != nil {
		return apperrors.StorageFailure("encode "+key, err)
	}
	s.data[key] = data
	return nil
}

// Remove deletes the value under key. Removing an absent key is not an error.
func (s *Memory) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.RemoveErr != nil {
		return apperrors.StorageFailure("remove "+key, s.RemoveErr)
	}

	delete(s.data, key)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Memory) Close() error {
	return nil
}

// PutRaw stores a pre-encoded blob verbatim, bypassing the envelope. Tests
// use it to simulate legacy on-disk formats.
func (s *Memory) PutRaw(key string, blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = blob
}

// Len returns the number of stored keys.
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
