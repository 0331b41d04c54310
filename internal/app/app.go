// Package app wires the storefront client together: local storage, the
// catalog transport, and the services the screens talk to.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mahamusharaf/vastr-storefront/internal/catalog"
	"github.com/mahamusharaf/vastr-storefront/internal/config"
	"github.com/mahamusharaf/vastr-storefront/internal/focus"
	"github.com/mahamusharaf/vastr-storefront/internal/search"
	"github.com/mahamusharaf/vastr-storefront/internal/session"
	"github.com/mahamusharaf/vastr-storefront/internal/store"
	"github.com/mahamusharaf/vastr-storefront/internal/wishlist"
	apperrors "github.com/mahamusharaf/vastr-storefront/pkg/errors"
	"github.com/mahamusharaf/vastr-storefront/pkg/health"
	"github.com/mahamusharaf/vastr-storefront/pkg/httpclient"
)

// App owns every service of the client and the storage handle they share.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	store  store.Store

	Catalog    *catalog.Client
	Aggregator *catalog.Aggregator
	Session    *session.Service
	Wishlist   *wishlist.Service
	Search     *search.Controller
	Focus      *focus.Reloader
	Health     *health.Registry
}

// New creates an application instance, initializing all dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	storagePath := cfg.StoragePath
	if storagePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve storage path: %w", err)
		}
		storagePath = filepath.Join(home, ".vastr-storefront", "db")
	}

	st, err := store.OpenLevelDB(storagePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	logger.Info("local store opened", slog.String("path", storagePath))

	httpClient := httpclient.New(httpclient.Config{
		Timeout: cfg.HTTPTimeout,
	})

	var doer catalog.HTTPDoer = httpClient
	if cfg.CircuitBreakerEnabled {
		doer = httpclient.NewCircuitBreakerClient(
			httpClient, httpclient.DefaultCircuitBreakerConfig("catalog"), logger)
		logger.Info("circuit breaker enabled for catalog transport")
	}

	catalogClient := catalog.NewClient(doer, cfg.APIBaseURL, logger)
	aggregator := catalog.NewAggregator(catalogClient, cfg.PageLimit, logger)
	sessionSvc := session.NewService(doer, cfg.APIBaseURL, st, logger)
	wishlistSvc := wishlist.NewService(st, logger)
	searchCtrl := search.NewController(catalogClient, cfg.PageLimit, logger)
	focusReloader := focus.NewReloader(wishlistSvc, logger)

	registry := health.NewRegistry()
	registry.Register("store", storeCheck(st))
	registry.Register("catalog", catalogCheck(doer, cfg.APIBaseURL))

	return &App{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		Catalog:    catalogClient,
		Aggregator: aggregator,
		Session:    sessionSvc,
		Wishlist:   wishlistSvc,
		Search:     searchCtrl,
		Focus:      focusReloader,
		Health:     registry,
	}, nil
}

// storeCheck probes the local store with a read. A missing key still
// proves the store handle is usable.
func storeCheck(st store.Store) health.Checker {
	return func(ctx context.Context) error {
		var probe json.RawMessage
		err := st.Get(ctx, store.KeyWishlist, &probe)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
}

// catalogCheck verifies the catalog API is reachable. Any HTTP response
// counts as reachable; only transport failures are reported.
func catalogCheck(doer catalog.HTTPDoer, baseURL string) health.Checker {
	return func(ctx context.Context) error {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/brands", http.NoBody)
		if err != nil {
			return err
		}
		resp, err := doer.Do(ctx, req)
		if err != nil {
			return err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Body.Close()
	}
}

// Close cancels pending searches and releases the local store.
func (a *App) Close() error {
	a.Search.Close()
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("close local store: %w", err)
	}
	a.logger.Info("local store closed")
	return nil
}
