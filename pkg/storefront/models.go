package storefront

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SizeStock is the stock held for one size label.
type SizeStock struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// UnmarshalJSON accepts {"size":"M","stock":3} as well as a bare "M". A bare label
// carries no stock, so it reads as 0.
func (s *SizeStock) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*s = SizeStock{Size: strings.TrimSpace(label)}
		return nil
	}
	type plain SizeStock
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid size record: %w", err)
	}
	p.Size = strings.TrimSpace(p.Size)
	*s = SizeStock(p)
	return nil
}

// Color is a named colorway.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// UnmarshalJSON accepts {"name":"Red","hex":"#f00"} as well as a bare "Red".
func (c *Color) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = Color{Name: strings.TrimSpace(name)}
		return nil
	}
	type plain Color
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid color record: %w", err)
	}
	p.Name = strings.TrimSpace(p.Name)
	*c = Color(p)
	return nil
}

// Product is a catalog record as served by the product service.
type Product struct {
	ID             string      `json:"_id"`
	Name           string      `json:"name"`
	Slug           string      `json:"slug,omitempty"`
	Description    string      `json:"description"`
	Price          int64       `json:"price"`
	Category       string      `json:"category"`
	Images         []string    `json:"images"`
	Sizes          []SizeStock `json:"sizes"`
	Colors         []Color     `json:"colors"`
	IsCustomizable bool        `json:"isCustomizable"`
	IsBestSeller   bool        `json:"isBestSeller"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// StockFor returns the stock listed for size, or 0 when the size is not listed.
func (p *Product) StockFor(size string) int {
	for _, s := range p.Sizes {
		if s.Size == size {
			return s.Stock
		}
	}
	return 0
}

// PrimaryImage is the first image, or "" for a product without images.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Items []Product `json:"items"`
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
	Total int64     `json:"total"`
}

// User is the identity behind a session.
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Session is a signed-in user and the bearer token issued for them.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// WishlistItem is a saved product with the fields needed to show it.
type WishlistItem struct {
	ProductID string `json:"_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Category  string `json:"category"`
}

// OrderItem is one line submitted at checkout.
type OrderItem struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name,omitempty"`
	Size       string `json:"size"`
	Color      string `json:"color,omitempty"`
	CustomText string `json:"customText,omitempty"`
	Quantity   int    `json:"quantity"`
	Price      int64  `json:"price"`
}

// Order is a placed order as returned by the order service.
type Order struct {
	ID          string      `json:"_id"`
	UserID      string      `json:"userId"`
	Items       []OrderItem `json:"items"`
	TotalAmount int64       `json:"totalAmount"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// StockShortage is an order line the backend could not serve from current stock.
type StockShortage struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}
