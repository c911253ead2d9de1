package handlers

import (
	"lyyn/internal/middleware"
	"lyyn/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles HTTP requests for the signed-in user's wishlist.
type WishlistHandler struct {
	service  *services.WishlistService
	validate *validator.Validate
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the wishlist routes. router must already require authentication.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlist")
	wishlistRoutes.Get("/", h.HandleList)
	wishlistRoutes.Post("/", h.HandleAdd)
	wishlistRoutes.Delete("/:productId", h.HandleRemove)
}

// HandleList returns the saved products.
func (h *WishlistHandler) HandleList(c *fiber.Ctx) error {
	items, err := h.service.List(middleware.CurrentClaims(c).UserID)
	if err != nil {
		return respondError(c, err, "Could not retrieve wishlist")
	}
	return c.JSON(items)
}

// HandleAdd saves a product and answers with the updated list.
func (h *WishlistHandler) HandleAdd(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"productId" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	items, err := h.service.Add(middleware.CurrentClaims(c).UserID, req.ProductID)
	if err != nil {
		return respondError(c, err, "Could not update wishlist")
	}
	return c.Status(fiber.StatusCreated).JSON(items)
}

// HandleRemove drops a product and answers with the updated list.
func (h *WishlistHandler) HandleRemove(c *fiber.Ctx) error {
	items, err := h.service.Remove(middleware.CurrentClaims(c).UserID, c.Params("productId"))
	if err != nil {
		return respondError(c, err, "Could not update wishlist")
	}
	return c.JSON(items)
}
