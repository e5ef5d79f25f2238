package rest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the inference endpoints.
type Metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	predictions *prometheus.CounterVec
	probability prometheus.Histogram
}

// NewMetrics registers the inference metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fraud_inference",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fraud_inference",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fraud_inference",
			Name:      "predictions_total",
			Help:      "Completed predictions by label.",
		}, []string{"label"}),
		probability: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fraud_inference",
			Name:      "prediction_probability",
			Help:      "Distribution of fraud probabilities returned to clients.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(endpoint, status string, seconds float64) {
	m.requests.WithLabelValues(endpoint, status).Inc()
	m.duration.WithLabelValues(endpoint).Observe(seconds)
}

// ObservePrediction records one completed prediction.
func (m *Metrics) ObservePrediction(label string, probability float64) {
	m.predictions.WithLabelValues(label).Inc()
	m.probability.Observe(probability)
}
