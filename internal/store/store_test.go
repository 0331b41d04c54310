package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahamusharaf/vastr-storefront/internal/domain"
	apperrors "github.com/mahamusharaf/vastr-storefront/pkg/errors"
)

func TestMemory_RoundTrip(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	in := domain.Wishlist{
		Version: 3,
		Entries: []domain.WishlistEntry{{Product: domain.Product{ID: "P1", Title: "Shirt"}}},
	}
	require.NoError(t, s.Set(ctx, KeyWishlist, in))

	var out domain.Wishlist
	require.NoError(t, s.Get(ctx, KeyWishlist, &out))
	assert.Equal(t, 3, out.Version)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "P1", out.Entries[0].Product.ID)
}

func TestMemory_GetMissingKey(t *testing.T) {
	s := NewMemory()

	var out string
	err := s.Get(context.Background(), KeySessionToken, &out)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemory_RemoveIsIdempotent(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeySessionToken, "tok"))
	require.NoError(t, s.Remove(ctx, KeySessionToken))
	require.NoError(t, s.Remove(ctx, KeySessionToken))

	var out string
	assert.ErrorIs(t, s.Get(ctx, KeySessionToken, &out), apperrors.ErrNotFound)
}

func TestMemory_ErrorInjection(t *testing.T) {
	s := NewMemory()
	boom := errors.New("disk full")
	s.SetErr = boom

	err := s.Set(context.Background(), KeyWishlist, domain.Wishlist{})
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.ErrorIs(t, err, boom)
}

func TestMemory_CancelledContext(t *testing.T) {
	s := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Set(ctx, KeySessionToken, "tok"), context.Canceled)

	var out string
	assert.ErrorIs(t, s.Get(ctx, KeySessionToken, &out), context.Canceled)
}

func TestDecode_LegacyBlobWithoutEnvelope(t *testing.T) {
	s := NewMemory()
	s.PutRaw(KeyWishlist, []byte(`{"version": 0, "entries": [{"product": {"product_id": "P9"}}]}`))

	var out domain.Wishlist
	require.NoError(t, s.Get(context.Background(), KeyWishlist, &out))
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "P9", out.Entries[0].Product.ID)
}

func TestDecode_LegacyBareString(t *testing.T) {
	s := NewMemory()
	s.PutRaw(KeySessionToken, []byte(`"legacy-token"`))

	var out string
	require.NoError(t, s.Get(context.Background(), KeySessionToken, &out))
	assert.Equal(t, "legacy-token", out)
}

func TestDecode_UnknownFutureVersion(t *testing.T) {
	s := NewMemory()
	s.PutRaw(KeyWishlist, []byte(`{"version": 99, "payload": {"entries": []}}`))

	var out domain.Wishlist
	err := s.Get(context.Background(), KeyWishlist, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

func TestDecode_CorruptBlob(t *testing.T) {
	s := NewMemory()
	s.PutRaw(KeyWishlist, []byte(`{not json`))

	var out domain.Wishlist
	err := s.Get(context.Background(), KeyWishlist, &out)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}
