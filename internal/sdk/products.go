package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	domain "github.com/closetlabs/storefront/pkg/types"
)

// ProductService exposes the catalog endpoints of the storefront API.
type ProductService struct {
	client *Client
	log    *slog.Logger
}

// NewProductService creates a ProductService on top of the given client.
func NewProductService(c *Client, log *slog.Logger) *ProductService {
	if log == nil {
		log = slog.Default()
	}
	return &ProductService{client: c, log: log}
}

// GetProducts fetches the raw product feed. The feed endpoint is not
// actually paged server-side; page identifies which client page the
// batch is for and only affects downstream id re-keying. The endpoint
// answers either a bare array or an enveloped {data: [...]} payload.
func (s *ProductService) GetProducts(ctx context.Context, page int) ([]domain.Product, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/data", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetching product feed (page %d): %w", page, err)
	}

	products, err := decodeFeed(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing product feed: %w", err)
	}

	s.log.Debug("fetched product feed", "page", page, "items", len(products))
	return products, nil
}

// FilterProducts asks the server-side filter endpoint for matching
// products. Callers fall back to in-memory filtering when this fails.
func (s *ProductService) FilterProducts(ctx context.Context, filters domain.ProductFilters) ([]domain.Product, error) {
	var resp envelope[[]domain.Product]
	cfg := &RequestConfig{Params: filters.QueryValues()}
	if err := s.client.Get(ctx, "/products/filter", cfg, &resp); err != nil {
		return nil, fmt.Errorf("filtering products: %w", err)
	}
	return resp.Data, nil
}

// SearchProducts asks the server-side search endpoint for products
// matching the term. Callers fall back to in-memory search when this
// fails.
func (s *ProductService) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("search", term)

	var resp envelope[[]domain.Product]
	if err := s.client.Get(ctx, "/products/search", &RequestConfig{Params: params}, &resp); err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	return resp.Data, nil
}

// GetProduct fetches a single product by id.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var resp envelope[domain.Product]
	if err := s.client.Get(ctx, "/products/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching product %s: %w", id, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return &resp.Data, nil
}

// FeaturedProducts fetches up to limit featured products.
func (s *ProductService) FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var resp envelope[[]domain.Product]
	if err := s.client.Get(ctx, "/products/featured", &RequestConfig{Params: params}, &resp); err != nil {
		return nil, fmt.Errorf("fetching featured products: %w", err)
	}
	return resp.Data, nil
}

// Categories fetches the category list. Failures degrade to an empty
// list: the filter panel renders without category options.
func (s *ProductService) Categories(ctx context.Context) []string {
	var resp envelope[[]string]
	if err := s.client.Get(ctx, "/products/categories", nil, &resp); err != nil {
		s.log.Debug("categories endpoint unavailable", "err", err)
		return nil
	}
	return resp.Data
}

// PriceRange fetches the catalog price bounds for the price slider.
// Failures degrade to the default [0, 1000] range.
func (s *ProductService) PriceRange(ctx context.Context) domain.PriceRange {
	var resp envelope[domain.PriceRange]
	if err := s.client.Get(ctx, "/products/price-range", nil, &resp); err != nil || !resp.Success {
		s.log.Debug("price-range endpoint unavailable", "err", err)
		return domain.PriceRange{Min: 0, Max: 1000}
	}
	return resp.Data
}

// decodeFeed accepts the two payload shapes the feed endpoint is known
// to answer with.
func decodeFeed(raw json.RawMessage) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err == nil {
		return products, nil
	}

	var wrapped envelope[[]domain.Product]
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected feed payload: %w", err)
	}
	if !wrapped.Success {
		return nil, fmt.Errorf("feed request unsuccessful: %s", wrapped.Message)
	}
	return wrapped.Data, nil
}
