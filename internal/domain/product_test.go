package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_UnmarshalDefaultsInStock(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"product_id": "P1", "title": "Shirt", "price_min": 1000}`), &p))

	assert.Equal(t, "P1", p.ID)
	assert.True(t, p.InStock, "missing availability defaults to in stock")
}

func TestProduct_UnmarshalExplicitOutOfStock(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"product_id": "P2", "available": false}`), &p))

	assert.False(t, p.InStock)
}

func TestProduct_DiscountPercent(t *testing.T) {
	tests := []struct {
		name     string
		priceMin float64
		original float64
		want     int
	}{
		{"no original price", 1000, 0, 0},
		{"original equals price", 1000, 1000, 0},
		{"original below price", 1000, 800, 0},
		{"quarter off", 1500, 2000, 25},
		{"rounds to nearest", 6500, 8500, 24},
		{"zero price", 0, 2000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{PriceMin: tt.priceMin, OriginalPrice: tt.original}
			assert.Equal(t, tt.want, p.DiscountPercent())
			assert.Equal(t, tt.want > 0, p.HasDiscount())
		})
	}
}

func TestImageRef_UnmarshalBothShapes(t *testing.T) {
	var p Product
	raw := `{
		"product_id": "P3",
		"images": [
			"https://cdn.vastr.app/a.jpg",
			{"src": "https://cdn.vastr.app/b.jpg"},
			{"url": "https://cdn.vastr.app/c.jpg", "src": "ignored"}
		]
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	require.Len(t, p.Images, 3)
	assert.Equal(t, "https://cdn.vastr.app/a.jpg", p.Images[0].URL)
	assert.Equal(t, "https://cdn.vastr.app/b.jpg", p.Images[1].URL)
	assert.Equal(t, "https://cdn.vastr.app/c.jpg", p.Images[2].URL)
	assert.Equal(t, "https://cdn.vastr.app/a.jpg", p.PrimaryImage())
}

func TestProduct_PrimaryImageEmpty(t *testing.T) {
	p := Product{}
	assert.Empty(t, p.PrimaryImage())
}

func TestWishlist_Membership(t *testing.T) {
	w := Wishlist{Entries: []WishlistEntry{
		{Product: Product{ID: "P1"}},
		{Product: Product{ID: "P2"}},
	}}

	assert.Equal(t, 0, w.IndexOf("P1"))
	assert.Equal(t, 1, w.IndexOf("P2"))
	assert.Equal(t, -1, w.IndexOf("P3"))
	assert.True(t, w.Contains("P2"))
	assert.False(t, w.Contains("P3"))
	assert.Equal(t, 2, w.Len())
}

func TestWishlistEntry_SnapshotSurvivesRoundTrip(t *testing.T) {
	entry := WishlistEntry{
		Product: Product{ID: "P1", Title: "Shirt", PriceMin: 1000, InStock: true},
		SavedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var got WishlistEntry
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, entry.Product.ID, got.Product.ID)
	assert.Equal(t, entry.Product.PriceMin, got.Product.PriceMin)
	assert.True(t, got.SavedAt.Equal(entry.SavedAt))
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()

	opaque := Session{Token: "opaque-token"}
	assert.False(t, opaque.Expired(now), "opaque tokens never expire locally")

	live := Session{Token: "t", ExpiresAt: now.Add(time.Hour)}
	assert.False(t, live.Expired(now))

	stale := Session{Token: "t", ExpiresAt: now.Add(-time.Hour)}
	assert.True(t, stale.Expired(now))
}
