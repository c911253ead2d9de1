package repositories

import (
	"fmt"
	"sync"
)

// MockWishlistRepository is an in-memory implementation of WishlistRepository.
type MockWishlistRepository struct {
	entries map[string][]string
	mu      sync.RWMutex
}

// NewMockWishlistRepository creates a new instance of MockWishlistRepository.
func NewMockWishlistRepository() *MockWishlistRepository {
	return &MockWishlistRepository{entries: make(map[string][]string)}
}

// ProductIDs returns the saved product IDs of a user.
func (r *MockWishlistRepository) ProductIDs(userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.entries[userID]...), nil
}

// Add saves a product for a user.
func (r *MockWishlistRepository) Add(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.entries[userID] {
		if id == productID {
			return nil
		}
	}
	r.entries[userID] = append(r.entries[userID], productID)
	return nil
}

// Remove deletes a saved product.
func (r *MockWishlistRepository) Remove(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.entries[userID]
	for i, id := range ids {
		if id == productID {
			r.entries[userID] = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("wishlist entry for product %s %w", productID, ErrNotFound)
}
