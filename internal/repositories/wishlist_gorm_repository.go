package repositories

import (
	"fmt"

	"lyyn/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{db: db}
}

// ProductIDs returns the product IDs saved by userID.
func (r *GORMWishlistRepository) ProductIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.WishlistEntry{}).
		Where("user_id = ?", userID).
		Order("created_at").Order("id").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist for user %s: %w", userID, err)
	}
	return ids, nil
}

// Add saves productID for userID unless it is already saved.
func (r *GORMWishlistRepository) Add(userID, productID string) error {
	entry := models.WishlistEntry{UserID: userID, ProductID: productID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to add product %s to wishlist: %w", productID, err)
	}
	return nil
}

// Remove deletes productID from the wishlist of userID.
func (r *GORMWishlistRepository) Remove(userID, productID string) error {
	res := r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistEntry{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove product %s from wishlist: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("wishlist entry for product %s %w", productID, ErrNotFound)
	}
	return nil
}
