// internal/common/metrics/metrics.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector of a run. It is written to a textfile once
// the run ends, since a one-shot process has nothing to be scraped from.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

const (
	CallGenerateWebhook = "generate_webhook"
	CallSubmitAnswer    = "submit_answer"
)

var (
	HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualifier_http_requests_total",
			Help: "Total number of hiring API calls by call and response status",
		},
		[]string{"call", "status"},
	)

	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qualifier_http_request_duration_seconds",
			Help:    "Duration of hiring API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"call"},
	)

	SubmissionAttempts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qualifier_submission_attempts_total",
			Help: "Total number of answer submission attempts by auth scheme and outcome",
		},
		[]string{"auth_scheme", "outcome"},
	)
)

// StatusLabel turns a status code into a label value. Zero means no
// response was received.
func StatusLabel(statusCode int) string {
	if statusCode == 0 {
		return "transport_error"
	}
	return fmt.Sprintf("%d", statusCode)
}

// WriteTextfile writes the registry in the node_exporter textfile format.
// An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
