package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_fallback_total",
		Help: "Read calls that degraded to deterministic placeholder data.",
	}, []string{"method"})

	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_call_duration_seconds",
		Help:    "Wall-clock duration of JSON-RPC calls against the ledger node.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)
