package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gift_parser/pkg/metrics"
)

//nolint:gochecknoglobals
var (
	activeJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metrics.Namespace,
		Name:      "batch_jobs_active",
		Help:      "Batch jobs currently running.",
	})

	finishedJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Name:      "batch_jobs_finished_total",
		Help:      "Batch jobs that reached a terminal status.",
	}, []string{"status"})
)
