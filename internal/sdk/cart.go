package sdk

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	domain "github.com/closetlabs/storefront/pkg/types"
)

// CartService exposes the shopping cart endpoints. All operations
// require an authenticated session.
type CartService struct {
	client *Client
	log    *slog.Logger
}

// NewCartService creates a CartService on top of the given client.
func NewCartService(c *Client, log *slog.Logger) *CartService {
	if log == nil {
		log = slog.Default()
	}
	return &CartService{client: c, log: log}
}

// Get fetches the user's cart.
func (s *CartService) Get(ctx context.Context) (*domain.Cart, error) {
	var resp envelope[domain.Cart]
	if err := s.client.Get(ctx, "/cart", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching cart: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("cart fetch unsuccessful: %s", resp.Message)
	}
	return &resp.Data, nil
}

// AddItem adds quantity units of a product to the cart.
func (s *CartService) AddItem(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}

	var resp envelope[domain.Cart]
	if err := s.client.Post(ctx, "/cart/items", body, &resp); err != nil {
		return nil, fmt.Errorf("adding cart item: %w", err)
	}
	return &resp.Data, nil
}

// UpdateItem sets the quantity of an existing cart line.
func (s *CartService) UpdateItem(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	body := map[string]any{"quantity": quantity}

	var resp envelope[domain.Cart]
	if err := s.client.Put(ctx, "/cart/items/"+url.PathEscape(productID), body, &resp); err != nil {
		return nil, fmt.Errorf("updating cart item: %w", err)
	}
	return &resp.Data, nil
}

// RemoveItem removes a product from the cart.
func (s *CartService) RemoveItem(ctx context.Context, productID string) (*domain.Cart, error) {
	var resp envelope[domain.Cart]
	if err := s.client.Delete(ctx, "/cart/items/"+url.PathEscape(productID), &resp); err != nil {
		return nil, fmt.Errorf("removing cart item: %w", err)
	}
	return &resp.Data, nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) error {
	if err := s.client.Delete(ctx, "/cart/clear", nil); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

// ApplyCoupon applies a coupon code to the cart.
func (s *CartService) ApplyCoupon(ctx context.Context, code string) (*domain.Cart, error) {
	body := map[string]string{"couponCode": code}

	var resp envelope[domain.Cart]
	if err := s.client.Post(ctx, "/cart/coupon", body, &resp); err != nil {
		return nil, fmt.Errorf("applying coupon: %w", err)
	}
	return &resp.Data, nil
}

// RemoveCoupon removes the active coupon from the cart.
func (s *CartService) RemoveCoupon(ctx context.Context) (*domain.Cart, error) {
	var resp envelope[domain.Cart]
	if err := s.client.Delete(ctx, "/cart/coupon", &resp); err != nil {
		return nil, fmt.Errorf("removing coupon: %w", err)
	}
	return &resp.Data, nil
}

// ItemCount returns the total quantity in the cart, degrading to zero
// when the cart cannot be fetched (badge rendering must not fail).
func (s *CartService) ItemCount(ctx context.Context) int {
	cart, err := s.Get(ctx)
	if err != nil {
		s.log.Debug("cart count unavailable", "err", err)
		return 0
	}
	return cart.ItemCount()
}

// Total returns the cart total, degrading to zero on error.
func (s *CartService) Total(ctx context.Context) float64 {
	cart, err := s.Get(ctx)
	if err != nil {
		s.log.Debug("cart total unavailable", "err", err)
		return 0
	}
	return cart.TotalAmount
}
