package storefront

import (
	"context"
	"fmt"
)

// WishlistState is the ordered list of saved products.
type WishlistState struct {
	Items []WishlistItem
}

// Contains reports whether productID is saved.
func (w WishlistState) Contains(productID string) bool {
	for _, it := range w.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Wishlist actions.
type (
	SetWishlist   struct{ Items []WishlistItem }
	ClearWishlist struct{}
)

// WishlistReducer is the reducer of the wishlist store.
func WishlistReducer(s WishlistState, a Action) WishlistState {
	switch a := a.(type) {
	case SetWishlist:
		return WishlistState{Items: append([]WishlistItem(nil), a.Items...)}
	case ClearWishlist:
		return WishlistState{}
	}
	return s
}

// WishlistAPI is the remote side of the wishlist.
type WishlistAPI interface {
	Wishlist(ctx context.Context, token string) ([]WishlistItem, error)
	AddToWishlist(ctx context.Context, token, productID string) ([]WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, token, productID string) ([]WishlistItem, error)
}

// Wishlist toggles saved products for the signed-in user. The local list only ever
// takes the list the backend answered with.
type Wishlist struct {
	store *Store[WishlistState]
	auth  *Store[AuthState]
	api   WishlistAPI
}

// NewWishlist creates a Wishlist over the given stores.
func NewWishlist(store *Store[WishlistState], auth *Store[AuthState], api WishlistAPI) *Wishlist {
	return &Wishlist{store: store, auth: auth, api: api}
}

// Toggle removes productID when saved and adds it otherwise. Without a session nothing
// changes and the error carries "Please login to use wishlist". It reports whether the
// product is saved afterwards.
func (w *Wishlist) Toggle(ctx context.Context, productID string) (bool, error) {
	token := w.auth.State().Token()
	if token == "" {
		return false, loginRequired("Please login to use wishlist")
	}

	var (
		items []WishlistItem
		err   error
	)
	if w.store.State().Contains(productID) {
		items, err = w.api.RemoveFromWishlist(ctx, token, productID)
	} else {
		items, err = w.api.AddToWishlist(ctx, token, productID)
	}
	if err != nil {
		return w.store.State().Contains(productID), fmt.Errorf("failed to update wishlist: %w", err)
	}
	next := w.store.Dispatch(SetWishlist{Items: items})
	return next.Contains(productID), nil
}

// Sync replaces the local list with the backend's.
func (w *Wishlist) Sync(ctx context.Context) error {
	token := w.auth.State().Token()
	if token == "" {
		w.store.Dispatch(ClearWishlist{})
		return nil
	}
	items, err := w.api.Wishlist(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to load wishlist: %w", err)
	}
	w.store.Dispatch(SetWishlist{Items: items})
	return nil
}
