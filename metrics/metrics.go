// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring election activity and service health
var (
	VotesCastTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ballotbox_votes_cast_total",
			Help: "Total number of ballots successfully cast",
		},
	)

	VoteAttemptsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballotbox_vote_attempts_rejected_total",
			Help: "Total number of rejected cast attempts by reason",
		},
		[]string{"reason"},
	)

	CodesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ballotbox_codes_issued_total",
			Help: "Total number of one-time codes issued",
		},
	)

	CodeVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballotbox_code_verifications_total",
			Help: "Total number of code verification attempts by result",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballotbox_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ballotbox_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(VotesCastTotal)
	prometheus.MustRegister(VoteAttemptsRejectedTotal)
	prometheus.MustRegister(CodesIssuedTotal)
	prometheus.MustRegister(CodeVerificationsTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
}
