package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/closetlabs/storefront/internal/metrics"
	domain "github.com/closetlabs/storefront/pkg/types"
)

// ProductAPI is the slice of the storefront API the store depends on.
// *sdk.ProductService satisfies it.
type ProductAPI interface {
	GetProducts(ctx context.Context, page int) ([]domain.Product, error)
	FilterProducts(ctx context.Context, filters domain.ProductFilters) ([]domain.Product, error)
	SearchProducts(ctx context.Context, term string) ([]domain.Product, error)
}

// State is the published product list state. The UI reads it via
// Snapshot and never mutates it directly; every mutation goes through
// one of the store's operations or reducers.
type State struct {
	Products        []domain.DisplayProduct
	Loading         bool
	LoadingMore     bool
	Error           string
	HasMore         bool
	CurrentPage     int
	SelectedFilters map[string][]string
	PriceRange      [2]float64
	SearchedItem    string
}

// operation kinds, indexing the per-kind generation counters.
const (
	opFetch = iota
	opLoadMore
	opFilter
	opSearch
	opCount
)

// Store holds the product list state and orchestrates the five
// asynchronous operations against the storefront API.
//
// Loading and LoadingMore are advisory: the store does not reject a
// second concurrent call of the same operation. Stale completions are
// detected with a per-operation-kind generation counter and discarded
// without touching state.
type Store struct {
	api          ProductAPI
	log          *slog.Logger
	fallbackDims []Dimension

	mu    sync.Mutex
	state State
	gens  [opCount]uint64
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		s.log = l
	}
}

// WithFallbackDimensions sets the filter dimensions the in-memory
// fallback applies when the server filter endpoint fails.
func WithFallbackDimensions(dims []Dimension) StoreOption {
	return func(s *Store) {
		s.fallbackDims = dims
	}
}

// NewStore creates a Store with an empty product list.
func NewStore(api ProductAPI, opts ...StoreOption) *Store {
	s := &Store{
		api:          api,
		log:          slog.Default(),
		fallbackDims: DefaultDimensions,
		state: State{
			HasMore:         true,
			CurrentPage:     1,
			SelectedFilters: map[string][]string{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state. The products slice and
// filter map are cloned so the caller cannot alias store internals.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (st *State) clone() State {
	out := *st
	out.Products = append([]domain.DisplayProduct(nil), st.Products...)
	out.SelectedFilters = make(map[string][]string, len(st.SelectedFilters))
	for k, v := range st.SelectedFilters {
		out.SelectedFilters[k] = append([]string(nil), v...)
	}
	return out
}

// FetchProducts loads page 1 of the feed, replacing the collection.
func (s *Store) FetchProducts(ctx context.Context) error {
	gen := s.begin(opFetch, false)

	items, err := s.api.GetProducts(ctx, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(opFetch, gen) {
		return nil
	}

	s.state.Loading = false
	if err != nil {
		s.state.Error = err.Error()
		s.log.Warn("product fetch failed", "err", err)
		return fmt.Errorf("fetching products: %w", err)
	}

	products := TransformPage(items, 1)
	s.state.Products = products
	s.state.CurrentPage = 1
	s.state.HasMore = len(products) > 0

	metrics.PagesLoadedTotal.Inc()
	metrics.ProductsLoadedTotal.Add(float64(len(products)))
	s.log.Debug("products fetched", "count", len(products))
	return nil
}

// LoadMoreProducts fetches the page after the current one and appends
// it. Callers are responsible for not re-invoking while LoadingMore is
// already true; the store does not self-guard.
func (s *Store) LoadMoreProducts(ctx context.Context) error {
	s.mu.Lock()
	next := s.state.CurrentPage + 1
	s.mu.Unlock()

	gen := s.begin(opLoadMore, true)

	items, err := s.api.GetProducts(ctx, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(opLoadMore, gen) {
		return nil
	}

	s.state.LoadingMore = false
	if err != nil {
		s.state.Error = err.Error()
		s.log.Warn("load more failed", "page", next, "err", err)
		return fmt.Errorf("loading page %d: %w", next, err)
	}

	products := TransformPage(items, next)
	s.state.Products = append(s.state.Products, products...)
	s.state.CurrentPage = next
	s.state.HasMore = len(products) > 0

	metrics.PagesLoadedTotal.Inc()
	metrics.ProductsLoadedTotal.Add(float64(len(products)))
	s.log.Debug("page appended", "page", next, "count", len(products))
	return nil
}

// FetchFilteredProducts asks the server filter endpoint for matching
// products, replacing the collection. When the endpoint fails the
// store silently falls back to filtering the products already in
// memory by the configured dimensions; the failure is not surfaced as
// a user-visible error.
func (s *Store) FetchFilteredProducts(ctx context.Context, filters domain.ProductFilters) error {
	gen := s.begin(opFilter, false)

	items, err := s.api.FilterProducts(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(opFilter, gen) {
		return nil
	}

	s.state.Loading = false

	var products []domain.DisplayProduct
	if err != nil {
		// The filter endpoint is treated as optional: degrade to the
		// in-memory collection as it stands right now.
		products = filterInMemory(s.state.Products, filters, s.fallbackDims)
		metrics.FallbackFilterTotal.Inc()
		s.log.Warn("filter endpoint unavailable, filtered in memory",
			"held", len(s.state.Products), "matched", len(products), "err", err)
	} else {
		products = TransformPage(items, 1)
	}

	s.state.Products = products
	s.state.CurrentPage = 1
	s.state.HasMore = len(products) > 0
	return nil
}

// FetchSearchedItem asks the server search endpoint for products
// matching the term, replacing the collection. When the endpoint fails
// the store silently falls back to a case-insensitive substring match
// on title or username over the products already in memory.
func (s *Store) FetchSearchedItem(ctx context.Context, term string) error {
	gen := s.begin(opSearch, false)

	items, err := s.api.SearchProducts(ctx, term)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(opSearch, gen) {
		return nil
	}

	s.state.Loading = false

	var products []domain.DisplayProduct
	if err != nil {
		products = searchInMemory(s.state.Products, term)
		metrics.FallbackSearchTotal.Inc()
		s.log.Warn("search endpoint unavailable, searched in memory",
			"term", term, "held", len(s.state.Products), "matched", len(products), "err", err)
	} else {
		products = TransformPage(items, 1)
	}

	s.state.Products = products
	s.state.CurrentPage = 1
	s.state.HasMore = len(products) > 0
	return nil
}

// ResetFilters clears the filter selection and empties the collection.
// It does not refetch; callers follow up with FetchProducts.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedFilters = map[string][]string{}
	s.state.Products = nil
	s.state.CurrentPage = 1
	s.state.HasMore = true
	s.state.Error = ""
}

// SetSelectedFilters replaces the filter panel selection.
func (s *Store) SetSelectedFilters(selection map[string][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selection == nil {
		selection = map[string][]string{}
	}
	s.state.SelectedFilters = selection
}

// SetSearchedItem records the committed (debounced) search term.
func (s *Store) SetSearchedItem(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchedItem = term
}

// SetPriceRange records the price slider bounds.
func (s *Store) SetPriceRange(minPrice, maxPrice float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PriceRange = [2]float64{minPrice, maxPrice}
}

// SetHasMore overrides the has-more flag.
func (s *Store) SetHasMore(hasMore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HasMore = hasMore
}

// ClearError clears the last operation error.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// ResetProducts empties the collection and pagination cursor without
// touching the filter selection.
func (s *Store) ResetProducts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Products = nil
	s.state.CurrentPage = 1
	s.state.HasMore = true
	s.state.Error = ""
}

// begin marks an operation pending: sets the loading flag, clears the
// error, and issues a new generation for the operation kind.
func (s *Store) begin(kind int, more bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if more {
		s.state.LoadingMore = true
	} else {
		s.state.Loading = true
	}
	s.state.Error = ""
	s.gens[kind]++
	return s.gens[kind]
}

// stale reports whether a completion was superseded by a newer request
// of the same kind. Caller must hold s.mu.
func (s *Store) stale(kind int, gen uint64) bool {
	if s.gens[kind] == gen {
		return false
	}
	metrics.StaleResultsDiscarded.Inc()
	s.log.Debug("discarding stale completion", "kind", kind, "gen", gen, "latest", s.gens[kind])
	return true
}
