package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the collectors exported on /metrics.
type Metrics struct {
	records         prometheus.Gauge
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them when registerer is not nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "labelcount_dataset_records",
			Help: "Number of records in the served dataset",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "labelcount_requests_total",
			Help: "API requests by route and status code",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "labelcount_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	if registerer != nil {
		registerer.MustRegister(m.records)
		registerer.MustRegister(m.requests)
		registerer.MustRegister(m.requestDuration)
	}

	return m
}
