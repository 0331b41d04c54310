package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mahamusharaf/vastr-storefront/internal/domain"
)

// HomeFeed is the composite result of the home screen's three independent
// reads. It is only handed to the caller once all three sections have
// settled; there is no partial paint.
type HomeFeed struct {
	Products   []domain.Product
	Brands     []domain.Brand
	Categories []domain.Category
}

// Aggregator orchestrates the home-feed load: latest products, brands, and
// categories fetched together.
type Aggregator struct {
	client *Client
	logger *slog.Logger
	limit  int
}

// NewAggregator creates a home-feed aggregator. limit bounds the product
// section.
func NewAggregator(client *Client, limit int, log *slog.Logger) *Aggregator {
	return &Aggregator{client: client, limit: limit, logger: log}
}

// LoadHomeFeed launches the three listing calls concurrently and joins them.
// Individual call failure is absorbed by the client's fail-soft parsing, so
// each section independently degrades to empty. A panic inside the request
// mechanism is recovered and mapped to an entirely empty feed with one
// logged aggregator-level failure.
func (a *Aggregator) LoadHomeFeed(ctx context.Context) *HomeFeed {
	feed := &HomeFeed{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.guarded(func() {
		feed.Products = a.client.ListProducts(gctx, ProductQuery{Limit: a.limit})
	}))
	g.Go(a.guarded(func() {
		feed.Brands = a.client.ListBrands(gctx)
	}))
	g.Go(a.guarded(func() {
		feed.Categories = a.client.ListCategories(gctx)
	}))

	if err := g.Wait(); err != nil {
		a.logger.Error("home feed load failed",
			slog.String("error", err.Error()),
		)
		return &HomeFeed{
			Products:   []domain.Product{},
			Brands:     []domain.Brand{},
			Categories: []domain.Category{},
		}
	}

	return feed
}

// guarded wraps a section fetch so a panic becomes an error instead of
// crashing the process.
func (a *Aggregator) guarded(fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("feed section panic: %v", r)
			}
		}()
		fn()
		return nil
	}
}
