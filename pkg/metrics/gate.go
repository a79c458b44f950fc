package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Gate decision outcomes.
const (
	OutcomePass               = "pass"
	OutcomeRedirectLogin      = "redirect_login"
	OutcomeRedirectDashboard  = "redirect_dashboard"
	OutcomeRedirectOnboarding = "redirect_onboarding"
	OutcomeFailOpen           = "fail_open"
)

// GateMetrics records routing decisions and collaborator health for the guard.
type GateMetrics struct {
	decisions *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewGateMetrics registers the gate metrics on the provided registerer.
func NewGateMetrics(reg prometheus.Registerer) *GateMetrics {
	if reg == nil {
		return &GateMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gate_decisions_total",
		Help: "Routing decisions taken by the guard, by outcome.",
	}, []string{"outcome"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gate_enforcement_skipped_total",
		Help: "Onboarding checks skipped because a collaborator failed.",
	}, []string{"reason"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collaborator_request_duration_seconds",
		Help:    "Latency of backend collaborator calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collaborator"})
	reg.MustRegister(decisions, skipped, latency)
	return &GateMetrics{
		decisions: decisions,
		skipped:   skipped,
		latency:   latency,
	}
}

// IncDecision counts one guard decision.
func (g *GateMetrics) IncDecision(outcome string) {
	if g == nil || g.decisions == nil {
		return
	}
	g.decisions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSkipped counts an onboarding check that failed open.
func (g *GateMetrics) IncSkipped(reason string) {
	if g == nil || g.skipped == nil {
		return
	}
	g.skipped.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveCollaborator records the latency of one collaborator call.
func (g *GateMetrics) ObserveCollaborator(name string, duration time.Duration) {
	if g == nil || g.latency == nil {
		return
	}
	g.latency.WithLabelValues(normalizeLabel(name)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
