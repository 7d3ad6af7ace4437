package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gift_parser/pkg/metrics"
)

const (
	resultCreated      = "created"
	resultDuplicate    = "duplicate"
	resultFetchFailed  = "fetch_failed"
	resultInsufficient = "insufficient"
	resultStoreFailed  = "store_failed"
	resultPanic        = "panic"
)

//nolint:gochecknoglobals
var (
	ingestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Name:      "ingest_total",
		Help:      "Gift pages processed, by outcome.",
	}, []string{"result"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Time spent downloading one gift page.",
		Buckets:   prometheus.DefBuckets,
	})
)
