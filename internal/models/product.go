package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SizeStock is the stock held for one size label of a product.
type SizeStock struct {
	Size  string `json:"size" bson:"size" validate:"required,max=40"`
	Stock int    `json:"stock" bson:"stock" validate:"gte=0"`
}

// UnmarshalJSON accepts both the object form {"size":"M","stock":3} and a bare
// size label "M". A bare label carries no stock information.
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

// Color is a named colorway with an optional display color.
type Color struct {
	Name string `json:"name" bson:"name" validate:"required,max=40"`
	Hex  string `json:"hex,omitempty" bson:"hex,omitempty"`
}

// UnmarshalJSON accepts both {"name":"Red","hex":"#f00"} and "Red".
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

// DefaultColors is applied to products submitted without any color.
var DefaultColors = []Color{{Name: "Standard", Hex: "#000000"}}

// Product represents a catalog item of the store.
type Product struct {
	ID             string         `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name           string         `json:"name" bson:"name" validate:"required,min=3,max=100"`
	Slug           string         `json:"slug" bson:"slug" gorm:"index;type:varchar(120)"`
	Description    string         `json:"description" bson:"description" validate:"required,max=2000"`
	Price          int64          `json:"price" bson:"price" validate:"required,gt=0"` // whole rupees
	Category       string         `json:"category" bson:"category" gorm:"index" validate:"required,oneof='Standard Tees' 'Custom Tees' 'Blankets'"`
	Images         []string       `json:"images" bson:"images" gorm:"serializer:json" validate:"required,min=1,dive,required"`
	Sizes          []SizeStock    `json:"sizes" bson:"sizes" gorm:"serializer:json" validate:"dive"`
	Colors         []Color        `json:"colors" bson:"colors" gorm:"serializer:json" validate:"dive"`
	IsCustomizable bool           `json:"isCustomizable" bson:"isCustomizable"`
	IsBestSeller   bool           `json:"isBestSeller" bson:"isBestSeller"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" bson:"-" gorm:"index"`
}

// StockFor returns the stock recorded for size, or 0 when the size is not listed.
func (p *Product) StockFor(size string) int {
	for _, s := range p.Sizes {
		if s.Size == size {
			return s.Stock
		}
	}
	return 0
}

// HasDuplicateSizes reports whether two size labels collide case-insensitively.
func HasDuplicateSizes(sizes []SizeStock) (string, bool) {
	seen := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		k := strings.ToLower(s.Size)
		if seen[k] {
			return s.Size, true
		}
		seen[k] = true
	}
	return "", false
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Items []Product `json:"items"`
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
	Total int64     `json:"total"`
}

// StockShortage describes an order line that cannot be served from current stock.
type StockShortage struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}
