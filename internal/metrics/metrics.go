package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClientRequestsTotal counts request client calls by outcome:
	// "success" or the failure kind.
	ClientRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sara_client_requests_total",
		Help: "Authenticated request client calls by outcome.",
	}, []string{"outcome"})

	ClientRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sara_client_request_duration_seconds",
		Help:    "Time from dispatch to classified outcome.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sara_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	CSRFRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sara_csrf_rejections_total",
		Help: "Unsafe requests rejected for a missing or mismatched CSRF token.",
	})

	ThemeChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sara_theme_changes_total",
		Help: "Persisted theme preference changes by theme.",
	}, []string{"theme"})

	AccessDeniedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sara_access_denied_total",
		Help: "Requests refused for lacking an application grant.",
	})
)
