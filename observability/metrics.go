package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type engineMetrics struct {
	ops     *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

var (
	engineMetricsOnce sync.Once
	engineRegistry    *engineMetrics
)

// EngineMetrics returns the lazily-initialised metrics registry used to
// record native engine activity.
func EngineMetrics() *engineMetrics {
	engineMetricsOnce.Do(func() {
		engineRegistry = &engineMetrics{
			ops: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "karva",
				Subsystem: "engine",
				Name:      "ops_total",
				Help:      "Total engine operations segmented by module, operation, and outcome.",
			}, []string{"module", "op", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "karva",
				Subsystem: "engine",
				Name:      "op_duration_seconds",
				Help:      "Latency distribution for engine operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"module", "op"}),
		}
		prometheus.MustRegister(engineRegistry.ops, engineRegistry.latency)
	})
	return engineRegistry
}

// RecordOp records one engine operation invocation.
func (m *engineMetrics) RecordOp(module, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ops.WithLabelValues(module, op, outcome).Inc()
	m.latency.WithLabelValues(module, op).Observe(time.Since(start).Seconds())
}
