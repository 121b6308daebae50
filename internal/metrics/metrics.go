package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	WebhookOrders    *prometheus.CounterVec
	DispatchOutcomes *prometheus.CounterVec
	DispatchLatency  *prometheus.HistogramVec
	JobsRetried      *prometheus.CounterVec
	JobsAbandoned    *prometheus.CounterVec
	MonitorResweeps  prometheus.Counter
	Confirmations    *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			WebhookOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_orders_total",
				Help:      "Total webhook order submissions by outcome.",
			}, []string{"status"}),
			DispatchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_attempts_total",
				Help:      "Total dispatch attempts by channel and outcome.",
			}, []string{"channel", "status"}),
			DispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Latency distribution for channel adapter sends.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"channel"}),
			JobsRetried: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_retried_total",
				Help:      "Total jobs rescheduled with backoff by channel.",
			}, []string{"channel"}),
			JobsAbandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_abandoned_total",
				Help:      "Total jobs abandoned after exhausting retries.",
			}, []string{"channel"}),
			MonitorResweeps: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "monitor_rescheduled_total",
				Help:      "Total orders re-driven by the fallback sweep.",
			}),
			Confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "confirmations_total",
				Help:      "Total buyer confirmation decisions by status.",
			}, []string{"status"}),
		}

		prometheus.MustRegister(
			metricsInstance.WebhookOrders,
			metricsInstance.DispatchOutcomes,
			metricsInstance.DispatchLatency,
			metricsInstance.JobsRetried,
			metricsInstance.JobsAbandoned,
			metricsInstance.MonitorResweeps,
			metricsInstance.Confirmations,
		)
	})
	return metricsInstance
}
