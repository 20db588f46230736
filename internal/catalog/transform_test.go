package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/closetlabs/storefront/pkg/types"
)

func floatPtr(v float64) *float64 { return &v }

func pricingPtr(p domain.PricingOption) *domain.PricingOption { return &p }

func TestTransform_CompleteRecord(t *testing.T) {
	t.Parallel()

	item := domain.Product{
		ID:            "prod-1",
		ImagePath:     "https://cdn.example.com/prod-1.jpg",
		Creator:       "ada",
		Title:         "Linen jacket",
		Price:         floatPtr(42.5),
		PricingOption: pricingPtr(domain.PricingPaid),
	}

	p := Transform(item, 0)
	assert.Equal(t, "prod-1", p.ID)
	assert.Equal(t, "https://cdn.example.com/prod-1.jpg", p.Image)
	assert.Equal(t, "ada", p.Username)
	assert.Equal(t, "Linen jacket", p.Title)
	assert.InDelta(t, 42.5, p.Price, 0.001)
	assert.Equal(t, domain.PricingPaid, p.PricingOption)
}

func TestTransform_EmptyRecordDefaults(t *testing.T) {
	t.Parallel()

	p := Transform(domain.Product{}, 3)
	assert.Equal(t, "api-3", p.ID)
	assert.Contains(t, p.Image, "images.unsplash.com")
	assert.Equal(t, "unknown_user", p.Username)
	assert.Equal(t, "Item 4", p.Title)
	assert.GreaterOrEqual(t, p.Price, float64(priceFloor))
	assert.Less(t, p.Price, float64(priceFloor+priceSpan))
	assert.Equal(t, domain.PricingFree, p.PricingOption)
}

func TestTransform_PaidZeroIsNotCoercedToFree(t *testing.T) {
	t.Parallel()

	item := domain.Product{ID: "p", PricingOption: pricingPtr(domain.PricingPaid)}
	p := Transform(item, 0)
	assert.Equal(t, domain.PricingPaid, p.PricingOption)
}

func TestTransform_InvalidPricingFallsBackToFree(t *testing.T) {
	t.Parallel()

	bad := domain.PricingOption(7)
	p := Transform(domain.Product{ID: "p", PricingOption: &bad}, 0)
	assert.Equal(t, domain.PricingFree, p.PricingOption)
}

func TestTransform_MetricsDeterministicAndInRange(t *testing.T) {
	t.Parallel()

	item := domain.Product{ID: "prod-9", Title: "Hat"}
	first := Transform(item, 0)
	for i := 0; i < 10; i++ {
		again := Transform(item, 0)
		assert.Equal(t, first.Views, again.Views)
		assert.Equal(t, first.Likes, again.Likes)
		assert.InDelta(t, first.Price, again.Price, 0.001)
	}

	assert.GreaterOrEqual(t, first.Views, viewsFloor)
	assert.Less(t, first.Views, viewsFloor+viewsSpan)
	assert.GreaterOrEqual(t, first.Likes, likesFloor)
	assert.Less(t, first.Likes, likesFloor+likesSpan)
}

func TestTransform_MetricsDifferAcrossFields(t *testing.T) {
	t.Parallel()

	// Views and likes hash different field labels, so over a spread of
	// ids they must not be a single shifted copy of each other.
	same := 0
	for i := 0; i < 50; i++ {
		p := Transform(domain.Product{ID: fmt.Sprintf("prod-%d", i)}, 0)
		if p.Views-viewsFloor == p.Likes-likesFloor {
			same++
		}
	}
	assert.Less(t, same, 10)
}

func TestTransformPage_RekeysByPositionAndPage(t *testing.T) {
	t.Parallel()

	items := []domain.Product{{ID: "a"}, {ID: "b"}}

	page1 := TransformPage(items, 1)
	require.Len(t, page1, 2)
	assert.Equal(t, "a-api-0-1", page1[0].ID)
	assert.Equal(t, "b-api-1-1", page1[1].ID)

	page2 := TransformPage(items, 2)
	assert.Equal(t, "a-api-0-2", page2[0].ID)
	assert.Equal(t, "b-api-1-2", page2[1].ID)
}

func TestTransformPage_MetricsStableAcrossPages(t *testing.T) {
	t.Parallel()

	// The rekeyed id differs per page but display metrics derive from
	// the source id, so the same record keeps its numbers everywhere.
	items := []domain.Product{{ID: "prod-1"}}
	page1 := TransformPage(items, 1)
	page2 := TransformPage(items, 2)

	assert.NotEqual(t, page1[0].ID, page2[0].ID)
	assert.Equal(t, page1[0].Views, page2[0].Views)
	assert.Equal(t, page1[0].Likes, page2[0].Likes)
	assert.InDelta(t, page1[0].Price, page2[0].Price, 0.001)
}

func TestTransformPage_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, TransformPage(nil, 1))
	assert.Empty(t, TransformPage([]domain.Product{}, 5))
}
