package services

import (
	"errors"
	"fmt"
	"log"

	"lyyn/internal/models"
	"lyyn/internal/repositories"
)

// WishlistService keeps the saved products of signed-in users.
type WishlistService struct {
	wishlist repositories.WishlistRepository
	products repositories.ProductRepository
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(wishlist repositories.WishlistRepository, products repositories.ProductRepository) *WishlistService {
	return &WishlistService{wishlist: wishlist, products: products}
}

// List returns display snapshots of the saved products. Products deleted from the
// catalog since they were saved are skipped.
func (s *WishlistService) List(userID string) ([]models.WishlistItem, error) {
	ids, err := s.wishlist.ProductIDs(userID)
	if err != nil {
		return nil, err
	}
	items := make([]models.WishlistItem, 0, len(ids))
	for _, id := range ids {
		p, err := s.products.GetByID(id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, models.NewWishlistItem(p))
	}
	return items, nil
}

// Add saves productID and returns the updated list.
func (s *WishlistService) Add(userID, productID string) ([]models.WishlistItem, error) {
	if _, err := s.products.GetByID(productID); err != nil {
		return nil, err
	}
	if err := s.wishlist.Add(userID, productID); err != nil {
		return nil, err
	}
	return s.List(userID)
}

// Remove drops productID and returns the updated list. Removing a product that is not
// saved is not an error.
func (s *WishlistService) Remove(userID, productID string) ([]models.WishlistItem, error) {
	if err := s.wishlist.Remove(userID, productID); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to update wishlist: %w", err)
		}
		log.Printf("Wishlist remove for user %s: product %s was not saved", userID, productID)
	}
	return s.List(userID)
}
