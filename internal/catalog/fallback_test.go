package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/closetlabs/storefront/pkg/types"
)

func displayFixture() []domain.DisplayProduct {
	return []domain.DisplayProduct{
		{ID: "1", Title: "Wool coat", Username: "ada", Price: 80, PricingOption: domain.PricingPaid},
		{ID: "2", Title: "Free pattern", Username: "grace", Price: 0, PricingOption: domain.PricingFree},
		{ID: "3", Title: "Lookbook", Username: "ada", Price: 0, PricingOption: domain.PricingViewOnly},
		{ID: "4", Title: "Silk scarf", Username: "joan", Price: 25, PricingOption: domain.PricingPaid},
	}
}

func TestParseDimensions(t *testing.T) {
	t.Parallel()

	dims, err := ParseDimensions([]string{"pricing_option", "price_range"})
	require.NoError(t, err)
	assert.Equal(t, []Dimension{DimPricingOption, DimPriceRange}, dims)

	_, err = ParseDimensions([]string{"color"})
	assert.Error(t, err)
}

func TestFilterInMemory_PricingOption(t *testing.T) {
	t.Parallel()

	got := filterInMemory(displayFixture(), domain.ProductFilters{
		PricingOptions: []domain.PricingOption{domain.PricingPaid},
	}, DefaultDimensions)

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
}

func TestFilterInMemory_EmptySelectionMatchesAll(t *testing.T) {
	t.Parallel()

	got := filterInMemory(displayFixture(), domain.ProductFilters{}, DefaultDimensions)
	assert.Len(t, got, 4)
}

func TestFilterInMemory_UncoveredDimensionIgnored(t *testing.T) {
	t.Parallel()

	// Price bounds are outside the default fallback coverage, so they
	// must not narrow the result.
	minPrice := 50.0
	got := filterInMemory(displayFixture(), domain.ProductFilters{
		MinPrice: &minPrice,
	}, DefaultDimensions)
	assert.Len(t, got, 4)
}

func TestFilterInMemory_PriceRangeWhenConfigured(t *testing.T) {
	t.Parallel()

	minPrice, maxPrice := 10.0, 50.0
	got := filterInMemory(displayFixture(), domain.ProductFilters{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	}, []Dimension{DimPricingOption, DimPriceRange})

	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)
}

func TestFilterInMemory_CombinedDimensions(t *testing.T) {
	t.Parallel()

	maxPrice := 30.0
	got := filterInMemory(displayFixture(), domain.ProductFilters{
		PricingOptions: []domain.PricingOption{domain.PricingPaid, domain.PricingFree},
		MaxPrice:       &maxPrice,
	}, []Dimension{DimPricingOption, DimPriceRange})

	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
}

func TestSearchInMemory(t *testing.T) {
	t.Parallel()

	fixture := displayFixture()
	tests := []struct {
		name string
		term string
		ids  []string
	}{
		{"title match", "coat", []string{"1"}},
		{"case insensitive", "SILK", []string{"4"}},
		{"username match", "ada", []string{"1", "3"}},
		{"no match", "nonexistent", []string{}},
		{"empty term matches all", "", []string{"1", "2", "3", "4"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := searchInMemory(fixture, tt.term)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}
