package storefront

import (
	"context"
	"fmt"
)

// OrderItems converts cart lines into order lines.
func OrderItems(cart CartState) []OrderItem {
	items := make([]OrderItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, OrderItem{
			ProductID:  l.ProductID,
			Name:       l.Name,
			Size:       l.Size,
			Color:      l.Color,
			CustomText: l.CustomText,
			Quantity:   l.Quantity,
			Price:      l.Price,
		})
	}
	return items
}

// Checkout places an order for the cart. It needs a session and a non-empty cart.
// When the backend reports stock conflicts the cart is kept as it is and the
// *StockConflictError is returned; the cart is cleared only after a placed order.
func (s *Storefront) Checkout(ctx context.Context) (*Order, error) {
	auth := s.auth.State()
	if err := auth.Authorize(AreaCheckout); err != nil {
		return nil, err
	}
	cart := s.cart.State()
	if len(cart.Lines) == 0 {
		return nil, invalid("Your bag is empty")
	}

	order, err := s.client.PlaceOrder(ctx, auth.Token(), OrderItems(cart))
	if err != nil {
		return nil, fmt.Errorf("checkout failed: %w", err)
	}
	s.cart.Dispatch(ClearCart{})
	for _, id := range cart.ProductIDs() {
		s.reconciler.Invalidate(id)
	}
	return order, nil
}
