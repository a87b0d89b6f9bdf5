// Package observability exposes application-level prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FollowTransitions counts follow-graph state transitions by outcome.
	FollowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_follow_transitions_total",
		Help: "Total number of follow edge transitions by outcome",
	}, []string{"outcome"})

	// RefreshTokensIssued counts refresh tokens minted by login and refresh.
	RefreshTokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glimpse_refresh_tokens_issued_total",
		Help: "Total number of refresh tokens issued",
	})

	// AuthFailures counts authentication failures by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_auth_failures_total",
		Help: "Total number of authentication failures by reason",
	}, []string{"reason"})
)

// RecordFollowTransition increments the follow transition counter for the outcome.
func RecordFollowTransition(outcome string) {
	FollowTransitions.WithLabelValues(outcome).Inc()
}

// RecordAuthFailure increments the auth failure counter for the reason.
func RecordAuthFailure(reason string) {
	AuthFailures.WithLabelValues(reason).Inc()
}
