// Package store provides durable key/value storage of JSON-serializable
// blobs for the storefront client. Values survive process restarts and are
// wrapped in a version envelope so the on-disk format can migrate.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/mahamusharaf/vastr-storefront/pkg/errors"
)

// Well-known store keys. Services own their keys exclusively; screens never
// touch the store directly.
const (
	KeyWishlist       = "wishlist.items"
	KeySessionToken   = "session.token"
	KeySessionProfile = "session.profile"
)

// envelopeVersion is the current on-disk payload version.
const envelopeVersion = 1

// Store is durable key/value storage of JSON blobs. Get returns
// apperrors.ErrNotFound when the key is absent. No transactional multi-key
// operation is provided; callers needing atomicity across keys must accept
// the resulting race window.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// envelope wraps every persisted payload with its format version.
type envelope struct {
	Version int             `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

// encode marshals a value into the current envelope format.
func encode(value any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	data, err := json.Marshal(envelope{Version: envelopeVersion, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// decode unwraps an envelope, migrates the payload to the current version,
// and unmarshals it into dest. Blobs written before envelopes existed are
// treated as version 0.
func decode(data []byte, dest any) error {
	env := envelope{Version: 0, Payload: data}

	var parsed envelope
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Payload != nil {
		env = parsed
	}

	payload, err := migrate(env)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

// migrate upgrades a payload to the current envelope version.
func migrate(env envelope) (json.RawMessage, error) {
	switch env.Version {
	case 0:
		// Pre-envelope blobs carry the payload bare. The payload shape
		// itself has not changed since, so wrapping is the only upgrade.
		return env.Payload, nil
	case envelopeVersion:
		return env.Payload, nil
	default:
		return nil, fmt.Errorf("unknown payload version %d", env.Version)
	}
}

// notFound builds the sentinel error for a missing key.
func notFound(key string) error {
	return apperrors.NotFound("stored value", key)
}
