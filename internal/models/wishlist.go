package models

import "time"

// WishlistEntry links a user to a saved product.
type WishlistEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"uniqueIndex:idx_wishlist_user_product;type:varchar(36);not null"`
	ProductID string    `gorm:"uniqueIndex:idx_wishlist_user_product;type:varchar(36);not null"`
	CreatedAt time.Time
}

// WishlistItem is the product snapshot returned to clients for a wishlist entry.
type WishlistItem struct {
	ProductID string `json:"_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Category  string `json:"category"`
}

// NewWishlistItem snapshots the display fields of p.
func NewWishlistItem(p *Product) WishlistItem {
	item := WishlistItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0]
	}
	return item
}
