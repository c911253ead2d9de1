package repositories

import (
	"errors"
	"fmt"

	"lyyn/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func (r *GORMProductRepository) scoped(category string) *gorm.DB {
	q := r.db.Model(&models.Product{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	return q
}

// GetPage retrieves one page of products from the database.
func (r *GORMProductRepository) GetPage(page, pageSize int, category string) ([]models.Product, int64, error) {
	var total int64
	if err := r.scoped(category).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := r.scoped(category).
		Order("created_at desc").Order("id").
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products page %d: %w", page, err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Model(product).Select("*").Omit("created_at", "deleted_at").Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s %w for update", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s %w for deletion", id, ErrNotFound)
	}
	return nil
}

// ReserveStock checks and decrements per-size stock inside one transaction.
// Rows are locked on Postgres; SQLite serializes writers on its own.
func (r *GORMProductRepository) ReserveStock(items []models.OrderItem) ([]models.StockShortage, error) {
	var shortages []models.StockShortage
	err := r.db.Transaction(func(tx *gorm.DB) error {
		products := make(map[string]*models.Product)
		for _, item := range items {
			if _, ok := products[item.ProductID]; ok {
				continue
			}
			q := tx
			if tx.Dialector.Name() == "postgres" {
				q = q.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var p models.Product
			if err := q.First(&p, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
			}
			products[p.ID] = &p
		}

		shortages = applyReservation(products, items)
		if len(shortages) > 0 {
			return nil
		}
		for _, p := range products {
			if err := tx.Model(p).Select("sizes").Updates(p).Error; err != nil {
				return fmt.Errorf("failed to update stock for product %s: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shortages, nil
}
