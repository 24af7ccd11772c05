// Package metrics exposes Prometheus instruments for method-channel dispatch.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "extstorage"

var (
	registerOnce sync.Once

	dispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_total",
		Help:      "Method-channel calls by method and outcome",
	}, []string{"method", "outcome"})
	dispatchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Method-channel call latency in seconds by method",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~1s
	}, []string{"method"})
	volumesListed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "volumes_listed",
		Help:      "Number of volumes returned by the most recent successful listing",
	})
	elevatedAccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "elevated_access_granted",
		Help:      "1 if the most recent elevated-access query answered true, else 0",
	})
)

// Register adds the instruments to the default Prometheus registry. It is
// idempotent.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(dispatchTotal, dispatchDuration, volumesListed, elevatedAccess)
	})
}

// ObserveDispatch records one call of method with the given outcome.
func ObserveDispatch(method, outcome string, d time.Duration) {
	dispatchTotal.WithLabelValues(method, outcome).Inc()
	dispatchDuration.WithLabelValues(method).Observe(d.Seconds())
}

// SetVolumesListed records the size of the latest volume listing.
func SetVolumesListed(n int) { volumesListed.Set(float64(n)) }

// SetElevatedAccess records the latest elevated-access answer.
func SetElevatedAccess(granted bool) {
	if granted {
		elevatedAccess.Set(1)
		return
	}
	elevatedAccess.Set(0)
}
