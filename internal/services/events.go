package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lyyn/internal/models"
)

// RoutingKeyOrderPlaced is published for every stored order.
const RoutingKeyOrderPlaced = "order.placed"

// EventPublisher publishes a message body to an exchange.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderPlacedEvent is the payload of RoutingKeyOrderPlaced.
type OrderPlacedEvent struct {
	OrderID    string             `json:"orderId"`
	UserID     string             `json:"userId"`
	Status     string             `json:"status"`
	Total      int64              `json:"total"`
	Items      []models.OrderItem `json:"items"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// HandleOrderEvent decodes an order event delivered by the broker and records it.
func HandleOrderEvent(body []byte) error {
	var event OrderPlacedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode order event: %w", err)
	}
	if event.OrderID == "" {
		return fmt.Errorf("order event without order id")
	}
	units := 0
	for _, item := range event.Items {
		units += item.Quantity
	}
	log.Printf("Order %s placed by %s: %d units, total %d", event.OrderID, event.UserID, units, event.Total)
	return nil
}
