package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pathfinder/pathfinder/internal/event_bus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Subscribe(t *testing.T) {
	bus := event_bus.NewEventBus()
	m := New()
	m.Subscribe(bus)
	fetchedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), event_bus.CatalogRefreshedType, event_bus.CatalogRefreshed{
		FetchedAt: fetchedAt,
		Accepted:  3,
		Rejected:  2,
		Types:     map[string]int{"hackathon": 2, "conference": 1},
	})))
	require.NoError(t, bus.Publish(event_bus.NewEvent(context.Background(), event_bus.CatalogRefreshFailedType, event_bus.CatalogRefreshFailed{
		At:    fetchedAt,
		Error: "upstream down",
	})))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshes.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshes.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rejected))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.events))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsByType.WithLabelValues("hackathon")))
	assert.Equal(t, float64(fetchedAt.Unix()), testutil.ToFloat64(m.lastRefreshTS))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.refreshed(event_bus.CatalogRefreshed{Accepted: 1, Types: map[string]int{"meetup": 1}})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pathfinder_catalog_events_by_type{event_type="meetup"} 1`)
}
