package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, APIRequestDuration)
	assert.NotNil(t, APIRequestsTotal)
	assert.NotNil(t, APIErrorsTotal)
	assert.NotNil(t, PagesLoadedTotal)
	assert.NotNil(t, ProductsLoadedTotal)
	assert.NotNil(t, FallbackFilterTotal)
	assert.NotNil(t, FallbackSearchTotal)
	assert.NotNil(t, StaleResultsDiscarded)
	assert.NotNil(t, ScrollTriggersTotal)
}
