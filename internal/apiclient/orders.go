package apiclient

import (
	"context"
	"net/http"

	"github.com/xenking/otamanga-storefront/internal/domain/order"
)

// OrderService groups the order endpoints.
type OrderService struct{ c *Client }

// Create places an order for the current session.
func (s *OrderService) Create(ctx context.Context, in order.Input) (*order.Order, error) {
	return fetchOptional(ctx, s.c, "/Orders", Options{
		Method: http.MethodPost,
		Body:   encodeOrderInput(in),
	}, decodeOrder)
}

// ListMine returns the orders of the current user.
func (s *OrderService) ListMine(ctx context.Context) ([]order.Order, error) {
	return fetchList(ctx, s.c, "/Orders", Options{}, decodeOrder)
}

// ListAll returns every order. Administrators only.
func (s *OrderService) ListAll(ctx context.Context) ([]order.Order, error) {
	return fetchList(ctx, s.c, "/admin/orders", Options{}, decodeOrder)
}
