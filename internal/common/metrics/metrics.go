// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wizard_sessions_created_total",
			Help: "Total number of form sessions started",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wizard_sessions_active",
			Help: "Number of form sessions held in the registry",
		},
	)

	StepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_step_transitions_total",
			Help: "Advance and retreat attempts by step and outcome",
		},
		[]string{"step", "direction", "outcome"},
	)

	FieldValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_field_validation_failures_total",
			Help: "Number of failed field validations by field",
		},
		[]string{"field"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_submissions_total",
			Help: "Submit attempts by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wizard_submission_duration_seconds",
			Help:    "Time from accepted submit to recorded application, delay included",
			Buckets: []float64{0.1, 0.5, 1, 2, 2.5, 3, 5, 10},
		},
	)

	ListenerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_post_submit_listener_failures_total",
			Help: "Post-submit listener failures by listener",
		},
		[]string{"listener"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
)
