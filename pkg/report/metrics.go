package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "node_report_dispatches_total",
			Help: "Report dispatch attempts by outcome (delivered, failed, skipped)",
		},
		[]string{"outcome"},
	)

	dispatchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "node_report_dispatch_duration_seconds",
			Help:    "Wall time of a single report dispatch attempt",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)
