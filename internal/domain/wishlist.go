package domain

import "time"

// WishlistEntry is a stored snapshot of a product at the moment it was
// saved, not a live reference. It is never refreshed from the server while
// stored; price and stock reflect save time.
type WishlistEntry struct {
	Product Product   `json:"product"`
	SavedAt time.Time `json:"saved_at"`
}

// Wishlist is the persisted collection of saved products. Entries keep
// insertion order (oldest saved first) and are unique by product ID; the
// service enforces uniqueness, not the store. Version is an optimistic
// concurrency stamp incremented on every write.
type Wishlist struct {
	Version int             `json:"version"`
	Entries []WishlistEntry `json:"entries"`
}

// IndexOf returns the position of the entry with the given product ID,
// or -1 when absent. O(n); wishlists are user-scale, not catalog-scale.
func (w *Wishlist) IndexOf(productID string) int {
	for i := range w.Entries {
		if w.Entries[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Contains reports whether the product is in the wishlist.
func (w *Wishlist) Contains(productID string) bool {
	return w.IndexOf(productID) >= 0
}

// Len returns the number of saved entries.
func (w *Wishlist) Len() int {
	return len(w.Entries)
}
