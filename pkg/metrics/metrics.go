package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	InitiationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sofort",
			Name:      "initiations_total",
			Help:      "Payment session initiations by outcome",
		},
		[]string{"outcome"},
	)

	ReconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sofort",
			Name:      "reconciliations_total",
			Help:      "Status reconciliations by gateway status",
		},
		[]string{"status"},
	)

	GatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sofort",
			Name:      "gateway_request_duration_seconds",
			Help:      "Round-trip time of outbound gateway calls",
			Buckets: []float64{
				0.05, 0.1, 0.2, 0.3, 0.5, 0.8, 1.2, 2, 3, 5, 8,
			},
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(InitiationsTotal, ReconciliationsTotal, GatewayRequestDuration)
}

func IncInitiation(outcome string) {
	InitiationsTotal.WithLabelValues(outcome).Inc()
}

func IncReconciliation(status string) {
	ReconciliationsTotal.WithLabelValues(status).Inc()
}

func ObserveGateway(operation string, seconds float64) {
	GatewayRequestDuration.WithLabelValues(operation).Observe(seconds)
}
