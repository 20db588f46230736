package catalog

import (
	"fmt"
	"slices"
	"strings"

	domain "github.com/closetlabs/storefront/pkg/types"
)

// Dimension names a filter dimension the in-memory fallback can apply.
// The fallback covers exactly the configured dimensions; anything else
// in the filter set is accepted but ignored, with the server treated
// as authoritative for it.
type Dimension string

// Known fallback dimensions.
const (
	DimPricingOption Dimension = "pricing_option"
	DimPriceRange    Dimension = "price_range"
)

// DefaultDimensions is the fallback coverage used when none is
// configured: pricing option only, matching the observed behavior of
// the production client.
var DefaultDimensions = []Dimension{DimPricingOption}

// ParseDimensions converts config strings into Dimensions.
func ParseDimensions(names []string) ([]Dimension, error) {
	dims := make([]Dimension, 0, len(names))
	for _, name := range names {
		switch Dimension(name) {
		case DimPricingOption, DimPriceRange:
			dims = append(dims, Dimension(name))
		default:
			return nil, fmt.Errorf("unknown fallback dimension %q", name)
		}
	}
	return dims, nil
}

// filterInMemory filters the held collection by the configured
// dimensions of the given filter set.
func filterInMemory(products []domain.DisplayProduct, f domain.ProductFilters, dims []Dimension) []domain.DisplayProduct {
	out := make([]domain.DisplayProduct, 0, len(products))
	for i := range products {
		if matchProduct(&products[i], &f, dims) {
			out = append(out, products[i])
		}
	}
	return out
}

func matchProduct(p *domain.DisplayProduct, f *domain.ProductFilters, dims []Dimension) bool {
	for _, dim := range dims {
		switch dim {
		case DimPricingOption:
			if !matchPricing(p, f.PricingOptions) {
				return false
			}
		case DimPriceRange:
			if !matchPrice(p, f.MinPrice, f.MaxPrice) {
				return false
			}
		}
	}
	return true
}

func matchPricing(p *domain.DisplayProduct, options []domain.PricingOption) bool {
	if len(options) == 0 {
		return true
	}
	return slices.Contains(options, p.PricingOption)
}

func matchPrice(p *domain.DisplayProduct, minPrice, maxPrice *float64) bool {
	if minPrice != nil && p.Price < *minPrice {
		return false
	}
	if maxPrice != nil && p.Price > *maxPrice {
		return false
	}
	return true
}

// searchInMemory returns the held products whose title or username
// contains the term, case-insensitively. An empty term matches
// everything; suppressing empty searches is the caller's concern.
func searchInMemory(products []domain.DisplayProduct, term string) []domain.DisplayProduct {
	needle := strings.ToLower(term)
	out := make([]domain.DisplayProduct, 0, len(products))
	for i := range products {
		if strings.Contains(strings.ToLower(products[i].Title), needle) ||
			strings.Contains(strings.ToLower(products[i].Username), needle) {
			out = append(out, products[i])
		}
	}
	return out
}
