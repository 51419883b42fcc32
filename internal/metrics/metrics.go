package metrics

import (
	"net/http"

	"github.com/pathfinder/pathfinder/internal/event_bus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pathfinder"

// Metrics exposes catalog health. It is fed from event bus notifications so
// services stay unaware of Prometheus.
type Metrics struct {
	registry      *prometheus.Registry
	refreshes     *prometheus.CounterVec
	rejected      prometheus.Counter
	events        prometheus.Gauge
	eventsByType  *prometheus.GaugeVec
	lastRefreshTS prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_refreshes_total",
			Help:      "Number of catalog refreshes by result",
		}, []string{"result"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_rejected_records_total",
			Help:      "Number of feed records dropped by schema validation",
		}),
		events: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_events",
			Help:      "Number of events in the current catalog snapshot",
		}),
		eventsByType: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_events_by_type",
			Help:      "Number of events in the current snapshot per event type",
		}, []string{"event_type"}),
		lastRefreshTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_last_refresh_timestamp_seconds",
			Help:      "Unix timestamp of the last successful refresh",
		}),
	}
	m.registry.MustRegister(
		m.refreshes, m.rejected, m.events, m.eventsByType, m.lastRefreshTS,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Subscribe attaches the metrics to catalog notifications.
func (m *Metrics) Subscribe(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.CatalogRefreshedType, func(e event_bus.EventT[event_bus.CatalogRefreshed]) error {
		m.refreshed(e.Data)
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.CatalogRefreshFailedType, func(e event_bus.EventT[event_bus.CatalogRefreshFailed]) error {
		m.refreshes.WithLabelValues("error").Inc()
		return nil
	})
}

func (m *Metrics) refreshed(r event_bus.CatalogRefreshed) {
	m.refreshes.WithLabelValues("ok").Inc()
	m.rejected.Add(float64(r.Rejected))
	m.events.Set(float64(r.Accepted))
	m.eventsByType.Reset()
	for eventType, count := range r.Types {
		m.eventsByType.WithLabelValues(eventType).Set(float64(count))
	}
	m.lastRefreshTS.Set(float64(r.FetchedAt.Unix()))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
