package metrics

import "github.com/prometheus/client_golang/prometheus"

// Usage Prometheus metrics.
var (
	UsageRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "minewatch",
			Name:      "usage_records_total",
			Help:      "Total number of accepted usage records",
		},
		[]string{"site"},
	)

	UsageRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "minewatch",
			Name:      "usage_rejections_total",
			Help:      "Total number of usage records rejected by the water limit",
		},
		[]string{"site"},
	)

	WaterRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "minewatch",
			Name:      "water_remaining_acre_feet",
			Help:      "Remaining annual water allowance per site",
		},
		[]string{"site"},
	)
)

var usageMetricsRegistered bool

// RegisterUsageMetrics registers Prometheus usage metrics. Must be called once from main.
func RegisterUsageMetrics() {
	if usageMetricsRegistered {
		return
	}
	prometheus.MustRegister(UsageRecordsTotal)
	prometheus.MustRegister(UsageRejectionsTotal)
	prometheus.MustRegister(WaterRemaining)
	usageMetricsRegistered = true
}
