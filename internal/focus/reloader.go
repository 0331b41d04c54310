// Package focus re-reads locally persisted state whenever a screen becomes
// visible, so mutations made on one screen show up on every other screen
// without subscriptions or observers.
package focus

import (
	"context"
	"log/slog"

	"github.com/mahamusharaf/vastr-storefront/internal/domain"
)

// WishlistReader is the slice of the wishlist service the reloader needs.
type WishlistReader interface {
	List(ctx context.Context) []domain.WishlistEntry
	SavedIDs(ctx context.Context) map[string]bool
}

// Reloader pulls fresh wishlist state on every screen focus.
type Reloader struct {
	wishlist WishlistReader
	logger   *slog.Logger
}

// NewReloader creates a focus reloader over the given wishlist reader.
func NewReloader(wishlist WishlistReader, logger *slog.Logger) *Reloader {
	return &Reloader{wishlist: wishlist, logger: logger}
}

// OnFocus reloads the wishlist for the screen that just became visible.
// It always re-reads storage rather than serving a cached copy, so a
// toggle performed on any other screen is reflected immediately.
func (r *Reloader) OnFocus(ctx context.Context, screen string) []domain.WishlistEntry {
	entries := r.wishlist.List(ctx)
	r.logger.DebugContext(ctx, "screen focused, wishlist reloaded",
		slog.String("screen", screen),
		slog.Int("entries", len(entries)))
	return entries
}

// SavedSet returns the current wishlist membership set, for screens that
// only need to render a saved or unsaved marker per product.
func (r *Reloader) SavedSet(ctx context.Context) map[string]bool {
	return r.wishlist.SavedIDs(ctx)
}
