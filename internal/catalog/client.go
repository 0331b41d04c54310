// Package catalog implements the read-side client for the remote product
// catalog: listing, search, aggregates, and the composite home-feed load.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mahamusharaf/vastr-storefront/internal/domain"
	apperrors "github.com/mahamusharaf/vastr-storefront/pkg/errors"
	"github.com/mahamusharaf/vastr-storefront/pkg/httpclient"
	"github.com/mahamusharaf/vastr-storefront/pkg/logger"
)

// apiPrefix is the versioned base path of the catalog API.
const apiPrefix = "/api/v1"

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

var listFallbackTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_catalog_list_fallback_total",
		Help: "Listing calls that degraded to an empty result (transport, status, or decode failure)",
	},
	[]string{"endpoint"},
)

func init() {
	prometheus.MustRegister(listFallbackTotal)
}

// Client is a stateless wrapper over the catalog's read endpoints. Listing
// calls never fail: any transport error, non-2xx status, or undecodable body
// degrades to an empty collection so screens always have a renderable state.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client against the given base URL (scheme and
// host, without the /api/v1 prefix).
func NewClient(doer HTTPDoer, baseURL string, log *slog.Logger) *Client {
	return &Client{http: doer, baseURL: baseURL, logger: log}
}

// ProductQuery narrows a product listing request.
type ProductQuery struct {
	Limit  int
	Brand  string
	Search string
}

// ListProducts fetches a page of products. Fail-soft: an empty slice on any
// failure, never an error.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) []domain.Product {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Brand != "" {
		params.Set("brand", q.Brand)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	endpoint := "/products"
	var payload struct {
		Products []domain.Product `json:"products"`
	}
	c.fetchList(ctx, endpoint, params, &payload)

	if payload.Products == nil {
		return []domain.Product{}
	}
	return payload.Products
}

// ListBrands fetches the brand aggregates. Fail-soft.
func (c *Client) ListBrands(ctx context.Context) []domain.Brand {
	var payload struct {
		Brands []domain.Brand `json:"brands"`
	}
	c.fetchList(ctx, "/brands", nil, &payload)

	if payload.Brands == nil {
		return []domain.Brand{}
	}
	return payload.Brands
}

// ListCategories fetches the category aggregates. Fail-soft.
func (c *Client) ListCategories(ctx context.Context) []domain.Category {
	var payload struct {
		Categories []domain.Category `json:"categories"`
	}
	c.fetchList(ctx, "/categories", nil, &payload)

	if payload.Categories == nil {
		return []domain.Category{}
	}
	return payload.Categories
}

// GetProduct fetches a single product by ID. Unlike the listing calls this
// is a hard lookup: the caller gets a real error for a missing product or an
// unreachable server.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	req, err := c.newRequest(ctx, "/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.NetworkUnavailable(fmt.Errorf("get product %s: %w", id, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, apperrors.NotFound("product", id)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, "/products/"+id)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, apperrors.NetworkUnavailable(fmt.Errorf("decode product %s: %w", id, err))
	}
	return &product, nil
}

// fetchList performs one GET and applies defensive parsing: the body is read
// as text first, then decoded; any failure leaves dest untouched and logs the
// reason. There is no retry.
func (c *Client) fetchList(ctx context.Context, endpoint string, params url.Values, dest any) {
	log := logger.WithContext(ctx, c.logger)

	req, err := c.newRequest(ctx, endpoint, params)
	if err != nil {
		c.fallback(log, endpoint, "build request", err)
		return
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.fallback(log, endpoint, "transport", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		c.fallback(log, endpoint, "read body", err)
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.fallback(log, endpoint, "status", fmt.Errorf("unexpected status %d", resp.StatusCode))
		return
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.fallback(log, endpoint, "decode", err)
		return
	}
}

// fallback records one degraded listing call.
func (c *Client) fallback(log *slog.Logger, endpoint, stage string, err error) {
	listFallbackTotal.WithLabelValues(endpoint).Inc()
	log.Warn("catalog listing degraded to empty result",
		slog.String("endpoint", endpoint),
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
}

// newRequest builds a GET request with a fresh request ID.
func (c *Client) newRequest(ctx context.Context, endpoint string, params url.Values) (*http.Request, error) {
	u := c.baseURL + apiPrefix + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	return req, nil
}
