package repositories

// WishlistRepository stores which products a user saved.
type WishlistRepository interface {
	// ProductIDs returns the saved product IDs of a user, oldest first.
	ProductIDs(userID string) ([]string, error)
	// Add is idempotent: saving a product twice keeps one entry.
	Add(userID, productID string) error
	Remove(userID, productID string) error
}
