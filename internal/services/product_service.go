package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"lyyn/internal/models"
	"lyyn/internal/repositories"
	"lyyn/internal/storage"

	"github.com/gosimple/slug"
)

// DefaultPageSize is the number of products per catalog page.
const DefaultPageSize = 12

// ImageUpload is one image file received with a product submission.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// CreateProductRequest holds the non-file fields of an admin product submission.
type CreateProductRequest struct {
	Name           string             `validate:"required,min=3,max=100"`
	Description    string             `validate:"required,max=2000"`
	Price          int64              `validate:"required,gt=0"`
	Category       string             `validate:"required,oneof='Standard Tees' 'Custom Tees' 'Blankets'"`
	IsCustomizable bool
	IsBestSeller   bool
	Sizes          []models.SizeStock `validate:"dive"`
	Colors         []models.Color     `validate:"dive"`
}

// UpdateProductRequest replaces the editable fields of a product. Images keep their
// upload order and are not changed here.
type UpdateProductRequest struct {
	Name           string             `json:"name" validate:"required,min=3,max=100"`
	Description    string             `json:"description" validate:"required,max=2000"`
	Price          int64              `json:"price" validate:"required,gt=0"`
	Category       string             `json:"category" validate:"required,oneof='Standard Tees' 'Custom Tees' 'Blankets'"`
	IsCustomizable bool               `json:"isCustomizable"`
	IsBestSeller   bool               `json:"isBestSeller"`
	Sizes          []models.SizeStock `json:"sizes" validate:"dive"`
	Colors         []models.Color     `json:"colors" validate:"dive"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	images   storage.ImageStore
	pageSize int
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, images storage.ImageStore, pageSize int) *ProductService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ProductService{
		repo:     repo,
		images:   images,
		pageSize: pageSize,
	}
}

// ListProducts returns one page of the catalog, optionally filtered by category.
func (s *ProductService) ListProducts(page int, category string) (*models.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	items, total, err := s.repo.GetPage(page, s.pageSize, category)
	if err != nil {
		return nil, err
	}
	pages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	if pages < 1 {
		pages = 1
	}
	if items == nil {
		items = []models.Product{}
	}
	return &models.ProductPage{Items: items, Page: page, Pages: pages, Total: total}, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct uploads the images in order and stores the product.
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest, images []ImageUpload) (*models.Product, error) {
	if len(images) == 0 {
		return nil, invalid("Please upload at least one image")
	}
	if err := checkSizes(req.Sizes); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.images.Save(ctx, img.Filename, img.ContentType, img.Body)
		if err != nil {
			s.discardImages(ctx, urls)
			return nil, fmt.Errorf("failed to store image %s: %w", img.Filename, err)
		}
		urls = append(urls, url)
	}

	product := &models.Product{
		Name:           strings.TrimSpace(req.Name),
		Slug:           slug.Make(req.Name),
		Description:    req.Description,
		Price:          req.Price,
		Category:       req.Category,
		Images:         urls,
		Sizes:          req.Sizes,
		Colors:         colorsOrDefault(req.Colors),
		IsCustomizable: req.IsCustomizable,
		IsBestSeller:   req.IsBestSeller,
	}
	if err := s.repo.Create(product); err != nil {
		s.discardImages(ctx, urls)
		return nil, err
	}
	log.Printf("Created product %s (%s) with %d images", product.ID, product.Name, len(urls))
	return product, nil
}

// UpdateProduct replaces the editable fields of product id, restocking included.
func (s *ProductService) UpdateProduct(id string, req UpdateProductRequest) (*models.Product, error) {
	if err := checkSizes(req.Sizes); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(req.Name)
	product.Slug = slug.Make(req.Name)
	product.Description = req.Description
	product.Price = req.Price
	product.Category = req.Category
	product.IsCustomizable = req.IsCustomizable
	product.IsBestSeller = req.IsBestSeller
	product.Sizes = req.Sizes
	product.Colors = colorsOrDefault(req.Colors)
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	log.Printf("Updated product %s (%s)", product.ID, product.Name)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// discardImages removes images stored for a product that was never saved.
func (s *ProductService) discardImages(ctx context.Context, urls []string) {
	ctx = context.WithoutCancel(ctx)
	for _, url := range urls {
		if err := s.images.Delete(ctx, url); err != nil {
			log.Printf("Failed to remove orphaned image %s: %v", url, err)
		}
	}
}

func checkSizes(sizes []models.SizeStock) error {
	for i := range sizes {
		if sizes[i].Size == "" {
			return invalid("Please enter a size name")
		}
		if sizes[i].Stock < 0 {
			return invalid("Please enter a valid stock quantity")
		}
	}
	if dup, ok := models.HasDuplicateSizes(sizes); ok {
		return invalid("Size %q is listed more than once", dup)
	}
	return nil
}

func colorsOrDefault(colors []models.Color) []models.Color {
	if len(colors) == 0 {
		return append([]models.Color(nil), models.DefaultColors...)
	}
	return colors
}
