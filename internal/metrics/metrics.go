package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginsTotal counts login attempts by outcome (success, failure).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// FeedbackOrphans is the number of feedback rows whose owner is missing,
	// as measured by the last integrity sweep. Nonzero means the cascade broke.
	FeedbackOrphans = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedback_orphan_rows",
			Help: "Feedback rows whose owning user no longer exists",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	usernamePathPrefix = regexp.MustCompile(`^/users/[^/]+`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LoginsTotal, FeedbackOrphans)
	})
}

// NormalizePath reduces label cardinality by collapsing usernames and numeric
// IDs. E.g. /users/alice/feedback/add -> /users/{username}/feedback/add,
// /feedback/42/update -> /feedback/{id}/update.
func NormalizePath(path string) string {
	path = usernamePathPrefix.ReplaceAllString(path, "/users/{username}")
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncLogins increments the login attempt counter for the given outcome (success, failure).
func IncLogins(outcome string) {
	LoginsTotal.WithLabelValues(outcome).Inc()
}

// SetFeedbackOrphans records the orphan count from an integrity sweep.
func SetFeedbackOrphans(n int) {
	FeedbackOrphans.Set(float64(n))
}
