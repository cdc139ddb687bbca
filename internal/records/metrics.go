// AngelaMos | 2026
// metrics.go

package records

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	recordsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_detected_total",
			Help: "Personal records persisted, by context",
		},
		[]string{"context"},
	)

	recordsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "records_rejected_total",
			Help: "Manual record submissions rejected for not beating the current best",
		},
	)

	bestsCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_bests_cache_total",
			Help: "Current-bests cache lookups, by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(recordsDetected, recordsRejected, bestsCacheLookups)
}
