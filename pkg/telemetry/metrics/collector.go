package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records the governor's Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	cyclesTotal *prometheus.CounterVec

	routedPercentage prometheus.Gauge
	currentSpend     prometheus.Gauge
	idealSpend       prometheus.Gauge
	deviationPct     prometheus.Gauge

	regulatorComponents *prometheus.GaugeVec

	cycleDuration prometheus.Histogram
}

// NewCollector creates a collector backed by registry. A nil registry
// gets a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,

		cyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditgov_cycles_total",
				Help: "Total number of control cycles, by result",
			},
			[]string{"result"},
		),

		routedPercentage: factory.NewGauge(prometheus.GaugeOpts{
			Name: "creditgov_routed_percentage",
			Help: "Share of jobs routed to the credit account (0-100)",
		}),

		currentSpend: factory.NewGauge(prometheus.GaugeOpts{
			Name: "creditgov_current_spend_credits",
			Help: "Credits consumed so far in the current billing period",
		}),

		idealSpend: factory.NewGauge(prometheus.GaugeOpts{
			Name: "creditgov_ideal_spend_credits",
			Help: "Credits the straight-line trajectory expects by now",
		}),

		deviationPct: factory.NewGauge(prometheus.GaugeOpts{
			Name: "creditgov_trajectory_deviation_percent",
			Help: "Deviation from the spend trajectory as a percentage of the target",
		}),

		regulatorComponents: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "creditgov_regulator_component",
				Help: "Last regulator output decomposed by term",
			},
			[]string{"term"},
		),

		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditgov_cycle_duration_seconds",
			Help:    "Duration of control cycles in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}),
	}
}

// RecordCycle records the outcome and duration of one control cycle.
func (c *Collector) RecordCycle(result string, duration time.Duration) {
	c.cyclesTotal.WithLabelValues(result).Inc()
	c.cycleDuration.Observe(duration.Seconds())
}

// RecordDecision records the observable state of a completed decision.
func (c *Collector) RecordDecision(percentage, currentSpend, idealSpend, deviationPct float64) {
	c.routedPercentage.Set(percentage)
	c.currentSpend.Set(currentSpend)
	c.idealSpend.Set(idealSpend)
	c.deviationPct.Set(deviationPct)
}

// RecordComponents records the regulator's term-by-term contribution.
func (c *Collector) RecordComponents(proportional, integral, derivative float64) {
	c.regulatorComponents.WithLabelValues("proportional").Set(proportional)
	c.regulatorComponents.WithLabelValues("integral").Set(integral)
	c.regulatorComponents.WithLabelValues("derivative").Set(derivative)
}

// Handler returns the Prometheus exposition endpoint for this
// collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
