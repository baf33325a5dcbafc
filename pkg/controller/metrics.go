package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cyclesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "node_report_cycles_total",
		Help: "Completed report cycles by dispatch outcome",
	},
	[]string{"outcome"},
)
