// AngelaMos | 2026
// wishlist.go

package shop

import (
	"fmt"
	"slices"
	"sync"
)

const wishlistKey = "wishlist"

// Wishlist is a client-local set of product ids kept in insertion order.
type Wishlist struct {
	mu    sync.Mutex
	ids   []string
	store Storage
}

func NewWishlist(store Storage) (*Wishlist, error) {
	var ids []string
	if _, err := store.Load(wishlistKey, &ids); err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	return &Wishlist{ids: ids, store: store}, nil
}

// Toggle adds productID when absent and removes it when present. It reports
// whether the product is now on the list.
func (w *Wishlist) Toggle(productID string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ids []string
	added := !slices.Contains(w.ids, productID)
	if added {
		ids = append(slices.Clone(w.ids), productID)
	} else {
		ids = slices.DeleteFunc(slices.Clone(w.ids), func(id string) bool {
			return id == productID
		})
	}

	if err := w.store.Save(wishlistKey, ids); err != nil {
		return !added, fmt.Errorf("save wishlist: %w", err)
	}
	w.ids = ids
	return added, nil
}

func (w *Wishlist) Contains(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Contains(w.ids, productID)
}

func (w *Wishlist) IDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.ids)
}

func (w *Wishlist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.ids)
}
