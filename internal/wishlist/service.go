// Package wishlist owns the persisted set of saved products. Entries are
// full product snapshots captured at save time and are never refreshed from
// the server while stored.
package wishlist

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mahamusharaf/vastr-storefront/internal/domain"
	"github.com/mahamusharaf/vastr-storefront/internal/store"
	apperrors "github.com/mahamusharaf/vastr-storefront/pkg/errors"
	"github.com/mahamusharaf/vastr-storefront/pkg/logger"
)

// Service implements wishlist membership and the idempotent toggle. Every
// mutation is a read-modify-write over the whole collection; the mutex
// serializes them in FIFO order so concurrent toggles cannot lose updates.
type Service struct {
	store  store.Store
	logger *slog.Logger
	clock  func() time.Time

	mu sync.Mutex
}

// NewService creates a wishlist service over the given store.
func NewService(st store.Store, log *slog.Logger) *Service {
	return &Service{store: st, logger: log, clock: time.Now}
}

// IsSaved reports whether the product is in the wishlist. Storage read
// failures are absorbed as "nothing saved yet".
func (s *Service) IsSaved(ctx context.Context, productID string) bool {
	wl := s.loadForRead(ctx)
	return wl.Contains(productID)
}

// List returns the saved entries in insertion order, oldest first. Storage
// read failures are absorbed as an empty list.
func (s *Service) List(ctx context.Context) []domain.WishlistEntry {
	wl := s.loadForRead(ctx)
	if wl.Entries == nil {
		return []domain.WishlistEntry{}
	}
	return wl.Entries
}

// SavedIDs returns the set of saved product IDs, for screens that render
// membership marks over a product grid.
func (s *Service) SavedIDs(ctx context.Context) map[string]bool {
	wl := s.loadForRead(ctx)
	ids := make(map[string]bool, len(wl.Entries))
	for i := range wl.Entries {
		ids[wl.Entries[i].Product.ID] = true
	}
	return ids
}

// Toggle adds the product snapshot when absent and removes it when present.
// Returns the resulting membership. Two sequential toggles on the same
// product restore the original state.
func (s *Service) Toggle(ctx context.Context, product domain.Product) (bool, error) {
	if product.ID == "" {
		return false, apperrors.InvalidInput("product id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wl, err := s.loadForWrite(ctx)
	if err != nil {
		return false, err
	}

	saved := false
	if idx := wl.IndexOf(product.ID); idx >= 0 {
		wl.Entries = append(wl.Entries[:idx], wl.Entries[idx+1:]...)
	} else {
		wl.Entries = append(wl.Entries, domain.WishlistEntry{
			Product: product,
			SavedAt: s.clock(),
		})
		saved = true
	}

	wl.Version++
	if err := s.store.Set(ctx, store.KeyWishlist, wl); err != nil {
		return false, err
	}

	logger.WithContext(ctx, s.logger).Info("wishlist toggled",
		slog.String("product_id", product.ID),
		slog.Bool("saved", saved),
		slog.Int("size", wl.Len()),
	)
	return saved, nil
}

// Remove deletes the entry with the given product ID. Removing an absent
// product is a no-op.
func (s *Service) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wl, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}

	idx := wl.IndexOf(productID)
	if idx < 0 {
		return nil
	}

	wl.Entries = append(wl.Entries[:idx], wl.Entries[idx+1:]...)
	wl.Version++
	return s.store.Set(ctx, store.KeyWishlist, wl)
}

// Clear removes every entry.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wl, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	if wl.Len() == 0 {
		return nil
	}

	wl.Entries = nil
	wl.Version++
	return s.store.Set(ctx, store.KeyWishlist, wl)
}

// loadForRead returns the stored wishlist, degrading any failure to an
// empty collection.
func (s *Service) loadForRead(ctx context.Context) domain.Wishlist {
	var wl domain.Wishlist
	if err := s.store.Get(ctx, store.KeyWishlist, &wl); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.WithContext(ctx, s.logger).Warn("wishlist unreadable, treating as empty",
				slog.String("error", err.Error()),
			)
		}
		return domain.Wishlist{}
	}
	return wl
}

// loadForWrite returns the stored wishlist for a mutation. A missing key is
// an empty collection; an unreadable store is a real error so a transient
// fault cannot silently clobber saved entries.
func (s *Service) loadForWrite(ctx context.Context) (domain.Wishlist, error) {
	var wl domain.Wishlist
	if err := s.store.Get(ctx, store.KeyWishlist, &wl); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Wishlist{}, nil
		}
		return domain.Wishlist{}, err
	}
	return wl, nil
}
