package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mahamusharaf/vastr-storefront/pkg/errors"
	"github.com/mahamusharaf/vastr-storefront/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(srvURL string) *Client {
	return NewClient(httpclient.New(httpclient.DefaultConfig()), srvURL, testLogger())
}

func TestListProducts_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		assert.Equal(t, "24", r.URL.Query().Get("limit"))
		assert.Equal(t, "nishat", r.URL.Query().Get("brand"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": [
			{"product_id": "P1", "title": "Shirt", "price_min": 1000},
			{"product_id": "P2", "title": "Kurta", "price_min": 2500, "available": false}
		], "total_products": 2}`))
	}))
	defer srv.Close()

	products := newTestClient(srv.URL).ListProducts(context.Background(), ProductQuery{Limit: 24, Brand: "nishat"})

	require.Len(t, products, 2)
	assert.Equal(t, "P1", products[0].ID)
	assert.True(t, products[0].InStock)
	assert.False(t, products[1].InStock)
}

func TestListProducts_InvalidJSONBodyFailsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	products := newTestClient(srv.URL).ListProducts(context.Background(), ProductQuery{Limit: 24})

	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListProducts_ServerErrorFailsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	products := newTestClient(srv.URL).ListProducts(context.Background(), ProductQuery{Limit: 24})

	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListProducts_MissingFieldFailsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_products": 0}`))
	}))
	defer srv.Close()

	products := newTestClient(srv.URL).ListProducts(context.Background(), ProductQuery{Limit: 24})

	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListProducts_UnreachableHostFailsSoft(t *testing.T) {
	c := NewClient(httpclient.New(httpclient.DefaultConfig()), "http://127.0.0.1:1", testLogger())

	products := c.ListProducts(context.Background(), ProductQuery{Limit: 24})

	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListProducts_NoRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	newTestClient(srv.URL).ListProducts(context.Background(), ProductQuery{Limit: 24})

	assert.Equal(t, int32(1), calls.Load())
}

func TestListBrands_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/brands", r.URL.Path)
		_, _ = w.Write([]byte(`{"total_brands": 1, "brands": [
			{"brand_id": "nishat", "brand_name": "Nishat Linen", "product_count": 412}
		]}`))
	}))
	defer srv.Close()

	brands := newTestClient(srv.URL).ListBrands(context.Background())

	require.Len(t, brands, 1)
	assert.Equal(t, "nishat", brands[0].ID)
	assert.Equal(t, 412, brands[0].ProductCount)
}

func TestListCategories_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/categories", r.URL.Path)
		_, _ = w.Write([]byte(`{"categories": [
			{"category_name": "lawn", "product_count": 1200, "percentage": 34.2, "avg_price": 4500.5}
		]}`))
	}))
	defer srv.Close()

	categories := newTestClient(srv.URL).ListCategories(context.Background())

	require.Len(t, categories, 1)
	assert.Equal(t, "lawn", categories[0].Name)
	assert.Equal(t, 1200, categories[0].ProductCount)
}

func TestListCategories_TruncatedBodyFailsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"categories": [{"category_name": "lawn"`))
	}))
	defer srv.Close()

	categories := newTestClient(srv.URL).ListCategories(context.Background())
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestGetProduct_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/P1", r.URL.Path)
		_, _ = w.Write([]byte(`{"product_id": "P1", "title": "Shirt", "price_min": 1000, "original_price": 2000}`))
	}))
	defer srv.Close()

	p, err := newTestClient(srv.URL).GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "Shirt", p.Title)
	assert.Equal(t, 50, p.DiscountPercent())
}

func TestGetProduct_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetProduct_EmptyID(t *testing.T) {
	_, err := newTestClient("http://unused").GetProduct(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
