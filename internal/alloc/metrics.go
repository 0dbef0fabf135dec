package alloc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	allocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "director",
			Subsystem: "alloc",
			Name:      "allocations_total",
			Help:      "Total number of allocation calls by result",
		},
		[]string{"result"},
	)

	allocationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "director",
			Subsystem: "alloc",
			Name:      "allocation_duration_seconds",
			Help:      "Duration of allocation calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11), // 1s to ~17min
		},
	)

	instancesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "director",
			Subsystem: "alloc",
			Name:      "instances_total",
			Help:      "Total number of requested instances by terminal outcome",
		},
		[]string{"outcome"},
	)

	launchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "director",
			Subsystem: "alloc",
			Name:      "launches_total",
			Help:      "Total number of instance creation requests by result",
		},
		[]string{"result"},
	)

	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "director",
			Subsystem: "provider",
			Name:      "api_calls_total",
			Help:      "Total number of provider API calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "director",
			Subsystem: "provider",
			Name:      "api_latency_seconds",
			Help:      "Latency of provider API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		allocationsTotal,
		allocationDuration,
		instancesTotal,
		launchesTotal,
		apiCallsTotal,
		apiLatency,
	)
}

func recordAllocation(result string, elapsed time.Duration) {
	allocationsTotal.WithLabelValues(result).Inc()
	allocationDuration.Observe(elapsed.Seconds())
}

func recordInstanceOutcome(outcome Outcome) {
	instancesTotal.WithLabelValues(string(outcome)).Inc()
}

func recordLaunch(result string) {
	launchesTotal.WithLabelValues(result).Inc()
}

func recordAPICall(operation string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	apiCallsTotal.WithLabelValues(operation, result).Inc()
	apiLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
