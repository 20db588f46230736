package scroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// noThrottle keeps geometry tests independent of the rate limiter.
const noThrottle = -1 * time.Millisecond

func TestTrigger_Geometry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pos       Position
		threshold float64
		fired     bool
	}{
		{
			name:  "far from bottom",
			pos:   Position{ScrollTop: 0, ViewportHeight: 600, ContentHeight: 5000},
			fired: false,
		},
		{
			name:  "exactly at threshold",
			pos:   Position{ScrollTop: 4300, ViewportHeight: 600, ContentHeight: 5000},
			fired: true,
		},
		{
			name:  "just outside threshold",
			pos:   Position{ScrollTop: 4299, ViewportHeight: 600, ContentHeight: 5000},
			fired: false,
		},
		{
			name:  "at the very bottom",
			pos:   Position{ScrollTop: 4400, ViewportHeight: 600, ContentHeight: 5000},
			fired: true,
		},
		{
			name:      "custom threshold",
			pos:       Position{ScrollTop: 3900, ViewportHeight: 600, ContentHeight: 5000},
			threshold: 500,
			fired:     true,
		},
		{
			name:  "content shorter than viewport",
			pos:   Position{ScrollTop: 0, ViewportHeight: 600, ContentHeight: 400},
			fired: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls int
			tr := New(func() { calls++ }, Options{
				Threshold:   tt.threshold,
				MinInterval: noThrottle,
			})

			assert.Equal(t, tt.fired, tr.OnScroll(tt.pos))
			if tt.fired {
				assert.Equal(t, 1, calls)
			} else {
				assert.Zero(t, calls)
			}
		})
	}
}

func TestTrigger_SuppressedWhileLoading(t *testing.T) {
	t.Parallel()

	loading := true
	var calls int
	tr := New(func() { calls++ }, Options{
		MinInterval: noThrottle,
		IsLoading:   func() bool { return loading },
	})

	bottom := Position{ScrollTop: 4400, ViewportHeight: 600, ContentHeight: 5000}
	assert.False(t, tr.OnScroll(bottom))

	loading = false
	assert.True(t, tr.OnScroll(bottom))
	assert.Equal(t, 1, calls)
}

func TestTrigger_SuppressedWhenExhausted(t *testing.T) {
	t.Parallel()

	hasMore := true
	var calls int
	tr := New(func() { calls++ }, Options{
		MinInterval: noThrottle,
		HasMore:     func() bool { return hasMore },
	})

	bottom := Position{ScrollTop: 4400, ViewportHeight: 600, ContentHeight: 5000}
	assert.True(t, tr.OnScroll(bottom))

	hasMore = false
	assert.False(t, tr.OnScroll(bottom))
	assert.Equal(t, 1, calls)
}

func TestTrigger_ThrottlesBursts(t *testing.T) {
	t.Parallel()

	var calls int
	tr := New(func() { calls++ }, Options{MinInterval: time.Hour})

	bottom := Position{ScrollTop: 4400, ViewportHeight: 600, ContentHeight: 5000}
	assert.True(t, tr.OnScroll(bottom))
	for i := 0; i < 20; i++ {
		assert.False(t, tr.OnScroll(bottom))
	}
	assert.Equal(t, 1, calls)
}

func TestTrigger_NegativeIntervalDisablesThrottle(t *testing.T) {
	t.Parallel()

	var calls int
	tr := New(func() { calls++ }, Options{MinInterval: noThrottle})

	bottom := Position{ScrollTop: 4400, ViewportHeight: 600, ContentHeight: 5000}
	for i := 0; i < 5; i++ {
		assert.True(t, tr.OnScroll(bottom))
	}
	assert.Equal(t, 5, calls)
}

func TestTrigger_Close(t *testing.T) {
	t.Parallel()

	var calls int
	tr := New(func() { calls++ }, Options{MinInterval: noThrottle})

	bottom := Position{ScrollTop: 4400, ViewportHeight: 600, ContentHeight: 5000}
	assert.True(t, tr.OnScroll(bottom))

	tr.Close()
	tr.Close()
	assert.False(t, tr.OnScroll(bottom))
	assert.Equal(t, 1, calls)
}
