package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"lyyn/internal/middleware"
	"lyyn/internal/models"
	"lyyn/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Reads are public; writes need an admin token.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", authRequired, middleware.AdminRequired(), h.HandleCreateProduct)
	productRoutes.Put("/:id", authRequired, middleware.AdminRequired(), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", authRequired, middleware.AdminRequired(), h.HandleDeleteProduct)
}

// HandleListProducts answers one catalog page: ?pageNumber=N&category=C.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	page := c.QueryInt("pageNumber", 1)
	result, err := h.service.ListProducts(page, c.Query("category"))
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(result)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.service.GetProductByID(id)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", id, err)
		return respondError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateProduct accepts the multipart admin form: name, description, price,
// category, isCustomizable, isBestSeller, sizes and colors (JSON lists) and one or
// more "images" files, kept in upload order.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badBody(c, err)
	}

	req, err := parseProductForm(form)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	uploads := make([]services.ImageUpload, 0, len(form.File["images"]))
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			return badBody(c, err)
		}
		defer f.Close()
		uploads = append(uploads, services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}

	product, err := h.service.CreateProduct(c.UserContext(), req, uploads)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the editable fields of a product from a JSON body.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	var req services.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.UpdateProduct(id, req)
	if err != nil {
		log.Printf("Error updating product %s: %v", id, err)
		return respondError(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(id); err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		return respondError(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", id),
	})
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func formBool(form *multipart.Form, key string) (bool, error) {
	v := formValue(form, key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s", key)
	}
	return b, nil
}

func parseProductForm(form *multipart.Form) (services.CreateProductRequest, error) {
	req := services.CreateProductRequest{
		Name:        formValue(form, "name"),
		Description: formValue(form, "description"),
		Category:    formValue(form, "category"),
	}

	if raw := formValue(form, "price"); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, fmt.Errorf("price must be a whole number")
		}
		req.Price = price
	}

	var err error
	if req.IsCustomizable, err = formBool(form, "isCustomizable"); err != nil {
		return req, err
	}
	if req.IsBestSeller, err = formBool(form, "isBestSeller"); err != nil {
		return req, err
	}

	if raw := formValue(form, "sizes"); raw != "" {
		var sizes []models.SizeStock
		if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
			return req, fmt.Errorf("sizes must be a JSON list of {size, stock}")
		}
		req.Sizes = sizes
	}
	if raw := formValue(form, "colors"); raw != "" {
		var colors []models.Color
		if err := json.Unmarshal([]byte(raw), &colors); err != nil {
			return req, fmt.Errorf("colors must be a JSON list of {name, hex}")
		}
		req.Colors = colors
	}
	return req, nil
}
