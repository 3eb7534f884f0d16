package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce              sync.Once
	apiRequestsTotal          *prometheus.CounterVec
	apiLatencySeconds         *prometheus.HistogramVec
	apiErrorsTotal            *prometheus.CounterVec
	invitationsSentTotal      *prometheus.CounterVec
	submissionsCompletedTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_requests_total",
			Help: "Total number of assessment API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assessment_latency_seconds",
			Help:    "Latency distribution for assessment API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_errors_total",
			Help: "Total number of error responses returned by assessment endpoints.",
		}, []string{"method", "route", "status"})

		invitationsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_invitations_total",
			Help: "Invitation dispatch outcomes, labelled by delivery result.",
		}, []string{"outcome"})

		submissionsCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assessment_submissions_completed_total",
			Help: "Total number of candidate quiz submissions scored as completed.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			invitationsSentTotal,
			submissionsCompletedTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// InvitationsTotal exposes the invitation dispatch counter. Outcome is
// "accepted" or "rejected".
func InvitationsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return invitationsSentTotal
}

// SubmissionsCompletedTotal exposes the completed submission counter.
func SubmissionsCompletedTotal() prometheus.Counter {
	RegisterMetrics()
	return submissionsCompletedTotal
}
