// Package scroll turns raw scroll geometry into throttled load-more
// triggers for an infinitely scrolling product list.
package scroll

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/closetlabs/storefront/internal/metrics"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultThreshold   = 100.0
	DefaultMinInterval = 300 * time.Millisecond
)

// Position is a scroll measurement in pixels.
type Position struct {
	ScrollTop      float64
	ViewportHeight float64
	ContentHeight  float64
}

// nearBottom reports whether the viewport is within threshold pixels
// of the end of the content.
func (p Position) nearBottom(threshold float64) bool {
	return p.ScrollTop+p.ViewportHeight >= p.ContentHeight-threshold
}

// Options configures a Trigger.
type Options struct {
	// Threshold is the distance from the bottom, in pixels, at which
	// the trigger fires. Zero means DefaultThreshold.
	Threshold float64

	// MinInterval is the minimum time between firings. Zero means
	// DefaultMinInterval; a negative value disables throttling.
	MinInterval time.Duration

	// IsLoading suppresses firing while a load is already in flight.
	IsLoading func() bool

	// HasMore suppresses firing once pagination is exhausted.
	HasMore func() bool
}

// Trigger watches scroll positions and invokes a load-more callback
// when the viewport nears the bottom of the content. Firings are
// throttled and suppressed while a load is in flight or pagination is
// exhausted, so a burst of scroll events cannot fan out into duplicate
// page requests.
type Trigger struct {
	onLoadMore func()
	threshold  float64
	limiter    *rate.Limiter
	isLoading  func() bool
	hasMore    func() bool
	closed     atomic.Bool
}

// New creates a Trigger that calls onLoadMore on qualifying scrolls.
func New(onLoadMore func(), opts Options) *Trigger {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	interval := opts.MinInterval
	if interval == 0 {
		interval = DefaultMinInterval
	}
	var limiter *rate.Limiter
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}

	always := func() bool { return true }
	never := func() bool { return false }

	t := &Trigger{
		onLoadMore: onLoadMore,
		threshold:  threshold,
		limiter:    limiter,
		isLoading:  never,
		hasMore:    always,
	}
	if opts.IsLoading != nil {
		t.isLoading = opts.IsLoading
	}
	if opts.HasMore != nil {
		t.hasMore = opts.HasMore
	}
	return t
}

// OnScroll feeds a scroll measurement to the trigger and reports
// whether the load-more callback fired.
func (t *Trigger) OnScroll(pos Position) bool {
	if t.closed.Load() {
		return false
	}
	if !pos.nearBottom(t.threshold) {
		return false
	}
	if t.isLoading() || !t.hasMore() {
		return false
	}
	if t.limiter != nil && !t.limiter.Allow() {
		return false
	}

	metrics.ScrollTriggersTotal.Inc()
	t.onLoadMore()
	return true
}

// Close permanently disables the trigger. Safe to call more than once.
func (t *Trigger) Close() {
	t.closed.Store(true)
}
