package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var samplesRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "usage_samples_recorded_total",
		Help: "Usage samples stored, by ingestion source and anomaly flag.",
	},
	[]string{"source", "flagged"},
)
