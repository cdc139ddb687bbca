// AngelaMos | 2026
// metrics.go

package subscription

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_webhook_events_total",
			Help: "Billing webhook deliveries, by provider event type and outcome",
		},
		[]string{"type", "outcome"},
	)

	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_transitions_total",
			Help: "Applied subscription status transitions",
		},
		[]string{"from", "to"},
	)
)

func init() {
	prometheus.MustRegister(webhookEvents, transitionsTotal)
}
