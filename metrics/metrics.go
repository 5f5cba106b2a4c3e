// Package metrics exposes the in-process Prometheus counters the
// interceptor updates alongside its log lines. Nothing here is
// persisted outside the process; wiring a scrape endpoint, if any, is
// left to the host.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the counters the interceptor touches during a
// request's lifetime.
type Metrics struct {
	Decisions       *prometheus.CounterVec
	ForwardFailures *prometheus.CounterVec
	Comparisons     *prometheus.CounterVec
}

// New registers a fresh set of counters on reg. Passing a nil registry
// is valid: the counters are still created and incrementable, they are
// simply never exposed for scraping.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "requestrouting_decisions_total",
			Help: "Number of requests resolved per routing mode.",
		}, []string{"mode"}),
		ForwardFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "requestrouting_forward_failures_total",
			Help: "Number of forwarded calls to the new service that failed or timed out.",
		}, []string{"path"}),
		Comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "requestrouting_comparisons_total",
			Help: "Number of shadow response comparisons, by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(m.Decisions, m.ForwardFailures, m.Comparisons)
	}

	return m
}
