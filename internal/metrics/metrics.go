// Package metrics exposes underwriting counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "underwriter"

// Metrics holds the service collectors
// ⭐ SSOT: 메트릭 이름/라벨 정의는 여기서만
type Metrics struct {
	registry *prometheus.Registry

	breachedGuidelines *prometheus.CounterVec
	requotingBlocked   *prometheus.CounterVec
	priceDecisions     *prometheus.CounterVec
	quotesCreated      *prometheus.CounterVec
	collaboratorErrors *prometheus.CounterVec
	expiredQuotes      prometheus.Gauge
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		breachedGuidelines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breached_guidelines_total",
			Help:      "Underwriting guideline breaches by market and code.",
		}, []string{"market", "code"}),
		requotingBlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requoting_blocked_total",
			Help:      "Quote requests matching a live agreement, by variant and channel (counted in shadow mode too).",
		}, []string{"variant", "initiated_from"}),
		priceDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_decisions_total",
			Help:      "Price reuse decisions by variant, outcome and reason.",
		}, []string{"variant", "reused", "reason"}),
		quotesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_created_total",
			Help:      "Created quotes by variant and resulting state.",
		}, []string{"variant", "state"}),
		collaboratorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaborator_errors_total",
			Help:      "Collaborator failures by check and whether the check failed open.",
		}, []string{"check", "failed_open"}),
		expiredQuotes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expired_quotes",
			Help:      "Quoted but unsigned quotes past their validity window.",
		}),
	}

	m.registry.MustRegister(
		m.breachedGuidelines,
		m.requotingBlocked,
		m.priceDecisions,
		m.quotesCreated,
		m.collaboratorErrors,
		m.expiredQuotes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// GuidelinesBreached counts each breached code
func (m *Metrics) GuidelinesBreached(market string, codes []string) {
	for _, code := range codes {
		m.breachedGuidelines.WithLabelValues(market, code).Inc()
	}
}

// RequoteBlocked counts a request matching a live agreement
func (m *Metrics) RequoteBlocked(variant, initiatedFrom string) {
	m.requotingBlocked.WithLabelValues(variant, initiatedFrom).Inc()
}

// PriceDecided counts a price reuse decision
func (m *Metrics) PriceDecided(variant string, reused bool, reason string) {
	label := "false"
	if reused {
		label = "true"
	}
	m.priceDecisions.WithLabelValues(variant, label, reason).Inc()
}

// QuoteCreated counts a created quote
func (m *Metrics) QuoteCreated(variant, state string) {
	m.quotesCreated.WithLabelValues(variant, state).Inc()
}

// CollaboratorFailed counts a failed collaborator call
func (m *Metrics) CollaboratorFailed(check string, failedOpen bool) {
	label := "false"
	if failedOpen {
		label = "true"
	}
	m.collaboratorErrors.WithLabelValues(check, label).Inc()
}

// SetExpiredQuotes sets the expired quote gauge
func (m *Metrics) SetExpiredQuotes(n int) {
	m.expiredQuotes.Set(float64(n))
}
