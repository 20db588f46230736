// Package catalog implements the client-side product list engine: the
// raw-record transformation, the in-memory fallback predicates, and
// the state store orchestrating fetch, filter, search, and load-more.
package catalog

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	domain "github.com/closetlabs/storefront/pkg/types"
)

// Display metric ranges. Values are synthesized from a hash of the
// source id so that the same record renders the same metrics on every
// reload, unlike the original client's per-render random draws.
const (
	priceFloor = 5
	priceSpan  = 20 // [5, 24]
	viewsFloor = 50
	viewsSpan  = 200 // [50, 249]
	likesFloor = 10
	likesSpan  = 60 // [10, 69]
)

// stockPhotoBase seeds the fallback image URL for records without one.
const stockPhotoBase = 1591047139829

// Transform maps a raw feed record at the given position into a
// display-ready product. Every missing field gets a synthesized
// default; a raw record can never fail to transform.
func Transform(item domain.Product, index int) domain.DisplayProduct {
	id := item.ID
	if id == "" {
		id = fmt.Sprintf("api-%d", index)
	}

	image := item.ImagePath
	if image == "" {
		image = fmt.Sprintf("https://images.unsplash.com/photo-%d?w=400", stockPhotoBase+int64(index))
	}

	username := item.Creator
	if username == "" {
		username = "unknown_user"
	}

	title := item.Title
	if title == "" {
		title = fmt.Sprintf("Item %d", index+1)
	}

	price := float64(hashRange(id, "price", priceFloor, priceSpan))
	if item.Price != nil {
		price = *item.Price
	}

	pricing := domain.PricingFree
	if item.PricingOption != nil && item.PricingOption.Valid() {
		pricing = *item.PricingOption
	}

	return domain.DisplayProduct{
		ID:            id,
		Image:         image,
		Username:      username,
		Title:         title,
		Price:         price,
		Views:         hashRange(id, "views", viewsFloor, viewsSpan),
		Likes:         hashRange(id, "likes", likesFloor, likesSpan),
		PricingOption: pricing,
	}
}

// TransformPage transforms a fetched batch and re-keys each id with its
// position and page so a record appearing in two fetches never
// collides in the rendered list. Metrics are derived from the pre-rekey
// id, so they stay stable for the same source record across pages.
func TransformPage(items []domain.Product, page int) []domain.DisplayProduct {
	products := make([]domain.DisplayProduct, 0, len(items))
	for i := range items {
		p := Transform(items[i], i)
		p.ID = fmt.Sprintf("%s-api-%d-%d", p.ID, i, page)
		products = append(products, p)
	}
	return products
}

// hashRange folds a hash of id+field into [floor, floor+span-1].
func hashRange(id, field string, floor, span int) int {
	h := xxhash.Sum64String(id + ":" + field)
	return floor + int(h%uint64(span))
}
