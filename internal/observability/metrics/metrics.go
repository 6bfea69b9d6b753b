// Package metrics exposes Prometheus counters for authentication, delegated login and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "todo_byoa"

// Collector records gateway decisions, login attempts, delegation outcomes and request latency.
// It satisfies service.AuthObserver.
type Collector struct {
	gatewayDecisions   *prometheus.CounterVec
	loginAttempts      *prometheus.CounterVec
	delegationOutcomes *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		gatewayDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_decisions_total",
			Help:      "Authentication decisions made by the gateway, by credential mode and result.",
		}, []string{"mode", "result"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Session login attempts by result.",
		}, []string{"result"}),
		delegationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delegation_outcomes_total",
			Help:      "Delegated (bring-your-own-auth) login steps by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.gatewayDecisions,
		c.loginAttempts,
		c.delegationOutcomes,
		c.httpRequests,
		c.httpDuration,
	)
	return c
}

// GatewayDecision records one gateway decision.
func (c *Collector) GatewayDecision(mode, result string) {
	c.gatewayDecisions.WithLabelValues(mode, result).Inc()
}

// LoginAttempt records one session login attempt.
func (c *Collector) LoginAttempt(result string) {
	c.loginAttempts.WithLabelValues(result).Inc()
}

// DelegationOutcome records one delegated login step.
func (c *Collector) DelegationOutcome(outcome string) {
	c.delegationOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records a completed request. route should be the matched pattern, not the raw
// path, to keep label cardinality bounded.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
