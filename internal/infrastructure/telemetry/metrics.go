package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "storefront"

// Metrics is the Prometheus registry of the API process.
// Safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	ordersPlaced      prometheus.Counter
	orderTransitions  *prometheus.CounterVec
	orderNumberRetry  prometheus.Counter
	outboxDeliveries  *prometheus.CounterVec
	notificationsSent *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
}

// NewMetrics creates a registry with Go runtime, process and application collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders created from carts.",
		}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Order status changes by target status.",
		}, []string{"status"}),
		orderNumberRetry: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "orders",
			Name:      "number_collisions_total",
			Help:      "Order number collisions that forced regeneration.",
		}),
		outboxDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "outbox",
			Name:      "deliveries_total",
			Help:      "Outbox delivery attempts by event type and outcome.",
		}, []string{"event_type", "outcome"}),
		notificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "Customer notifications by outcome.",
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Product cache lookups by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.ordersPlaced,
		m.orderTransitions,
		m.orderNumberRetry,
		m.outboxDeliveries,
		m.notificationsSent,
		m.cacheLookups,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one served request. route is the matched pattern, not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) OrderPlaced() {
	m.ordersPlaced.Inc()
}

func (m *Metrics) OrderStatusChanged(status string) {
	m.orderTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) OrderNumberCollision() {
	m.orderNumberRetry.Inc()
}

// RecordDelivery implements the outbox processor's delivery recorder
func (m *Metrics) RecordDelivery(eventType, outcome string) {
	m.outboxDeliveries.WithLabelValues(eventType, outcome).Inc()
}

func (m *Metrics) NotificationSent(outcome string) {
	m.notificationsSent.WithLabelValues(outcome).Inc()
}

// CacheLookup counts a product cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
