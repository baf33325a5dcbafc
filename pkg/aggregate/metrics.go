package aggregate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	samplesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "node_samples_ingested_total",
			Help: "Valid samples accepted into an aggregation window, by signal",
		},
		[]string{"signal"},
	)

	samplesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "node_samples_discarded_total",
			Help: "Invalid samples dropped before aggregation, by signal and reason",
		},
		[]string{"signal", "reason"},
	)
)
