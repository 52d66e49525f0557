// Package telemetry expose les métriques Prometheus de l'API.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rogerbox"

// Metrics regroupe les collecteurs sur un registre dédié (pas le registre global).
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	InFlight         prometheus.Gauge
	DailyLookups     *prometheus.CounterVec
	PublishedByTimer prometheus.Counter
	BusEvents        *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Requests currently being served.",
		}),
		DailyLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "complements",
			Name:      "daily_lookups_total",
			Help:      "Daily complement resolutions by outcome and weekend fallback.",
		}, []string{"outcome", "weekend"}),
		PublishedByTimer: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "complements",
			Name:      "scheduled_publications_total",
			Help:      "Complements published by the scheduled publisher.",
		}),
		BusEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bus",
			Name:      "events_total",
			Help:      "Events published on the in-process bus by topic.",
		}, []string{"topic"}),
	}
	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.InFlight,
		m.DailyLookups,
		m.PublishedByTimer,
		m.BusEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler sert /metrics pour ce registre.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveDailyLookup implémente app.DailyContentObserver.
func (m *Metrics) ObserveDailyLookup(outcome string, weekend bool) {
	w := "false"
	if weekend {
		w = "true"
	}
	m.DailyLookups.WithLabelValues(outcome, w).Inc()
}

// ObserveScheduledPublication implémente app.PublisherObserver.
func (m *Metrics) ObserveScheduledPublication() {
	m.PublishedByTimer.Inc()
}
