package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("POST", "/graphql", "200", time.Millisecond)
		m.ObserveOperation("mutation", "ok", time.Millisecond)
		m.SubscriptionOpened()
		m.SubscriptionClosed()
		m.BookAdded()
		m.PublishFailed("BOOK_ADDED")
		m.CacheLookup("users", true)
	})
}

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New()
	m.BookAdded()
	m.BookAdded()
	m.PublishFailed("BOOK_ADDED")
	m.SubscriptionOpened()
	m.SubscriptionOpened()
	m.SubscriptionClosed()
	m.CacheLookup("users", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.booksAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.publishFailures.WithLabelValues("BOOK_ADDED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscriptions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("users", "miss")))
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveHTTP("POST", "/graphql", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `library_http_requests_total{method="POST",route="/graphql",status="200"} 1`)
}
