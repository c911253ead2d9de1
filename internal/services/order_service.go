package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"lyyn/internal/models"
	"lyyn/internal/repositories"
	"lyyn/pkg/rabbitmq"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher // nil when no broker is configured
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// GetOrdersForUser retrieves the orders placed by userID.
func (s *OrderService) GetOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetOrderByID retrieves an order visible to the caller.
func (s *OrderService) GetOrderByID(id string, caller *Claims) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && order.UserID != caller.UserID {
		return nil, ErrForbidden
	}
	return order, nil
}

// PlaceOrder prices the items from the catalog, performs the final stock check and
// reserves stock before storing the order. Stock shortfalls are reported as
// *InsufficientStockError and leave stock untouched.
func (s *OrderService) PlaceOrder(userID string, items []models.OrderItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, invalid("at least one item is required for an order")
	}

	var totalAmount int64
	processedItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, invalid("product %s is no longer available", item.ProductID)
			}
			return nil, fmt.Errorf("product %s lookup failed: %w", item.ProductID, err)
		}
		if item.Quantity < 1 {
			return nil, invalid("quantity for %s must be at least 1", product.Name)
		}
		if item.CustomText != "" && !product.IsCustomizable {
			return nil, invalid("%s cannot be customized", product.Name)
		}

		processedItems = append(processedItems, models.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			Size:       item.Size,
			Color:      item.Color,
			CustomText: item.CustomText,
			Quantity:   item.Quantity,
			Price:      product.Price, // catalog price, not the client's snapshot
		})
		totalAmount += product.Price * int64(item.Quantity)
	}

	shortages, err := s.productRepo.ReserveStock(processedItems)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}
	if len(shortages) > 0 {
		return nil, &InsufficientStockError{Shortages: shortages}
	}

	newOrder := &models.Order{
		ID:          uuid.New().String(),
		UserID:      userID,
		Items:       processedItems,
		TotalAmount: totalAmount,
		Status:      models.OrderStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publishPlaced(newOrder)
	return newOrder, nil
}

func (s *OrderService) publishPlaced(order *models.Order) {
	if s.publisher == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	body, err := json.Marshal(OrderPlacedEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		Total:      order.TotalAmount,
		Items:      order.Items,
		OccurredAt: order.CreatedAt,
	})
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	if err := s.publisher.Publish(rabbitmq.OrderExchange, RoutingKeyOrderPlaced, body); err != nil {
		log.Printf("Warning: Failed to publish order placed event for order %s: %v", order.ID, err)
		return
	}
	log.Printf("Successfully published order placed event for order %s", order.ID)
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	if !validStatuses[status] {
		return invalid("invalid order status: %s", status)
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}
