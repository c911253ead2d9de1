package repositories

import (
	"lyyn/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// GetPage returns one page of products, newest first, and the total number of matches.
	GetPage(page, pageSize int, category string) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// ReserveStock decrements per-size stock for every item, or nothing at all.
	// A non-empty shortage list means no stock was touched.
	ReserveStock(items []models.OrderItem) ([]models.StockShortage, error)
}

type stockKey struct {
	productID string
	size      string
}

// requestedStock sums the quantities per (product, size) so that two lines that only
// differ by color or custom text draw on the same stock.
func requestedStock(items []models.OrderItem) ([]stockKey, map[stockKey]int) {
	var order []stockKey
	totals := make(map[stockKey]int, len(items))
	for _, item := range items {
		k := stockKey{productID: item.ProductID, size: item.Size}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += item.Quantity
	}
	return order, totals
}

// applyReservation checks every requested size against products and decrements stock when
// all of them fit. Products missing from the map are reported with zero availability.
func applyReservation(products map[string]*models.Product, items []models.OrderItem) []models.StockShortage {
	order, totals := requestedStock(items)

	var shortages []models.StockShortage
	for _, k := range order {
		available := 0
		if p, ok := products[k.productID]; ok {
			available = p.StockFor(k.size)
		}
		if totals[k] > available {
			shortages = append(shortages, models.StockShortage{
				ProductID: k.productID,
				Size:      k.size,
				Requested: totals[k],
				Available: available,
			})
		}
	}
	if len(shortages) > 0 {
		return shortages
	}

	for _, k := range order {
		p := products[k.productID]
		for i := range p.Sizes {
			if p.Sizes[i].Size == k.size {
				p.Sizes[i].Stock -= totals[k]
			}
		}
	}
	return nil
}

func pageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
