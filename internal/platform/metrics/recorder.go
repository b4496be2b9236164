// Package metrics exposes quote store activity as Prometheus metrics.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

const namespace = "quotes"

// PrometheusRecorder implements ports.ResolutionRecorder.
// A nil *PrometheusRecorder is a valid no-op recorder.
type PrometheusRecorder struct {
	registry       *prom.Registry
	resolutions    *prom.CounterVec
	duration       *prom.HistogramVec
	collectionSize prom.Gauge
	announcements  prom.Counter
}

var _ ports.ResolutionRecorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs and registers the store metrics.
// A nil registry gets a fresh one with Go runtime and process collectors.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(
			promcollect.NewGoCollector(),
			promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}),
		)
	}

	p := &PrometheusRecorder{
		registry: reg,
		resolutions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "store_resolutions_total",
			Help:      "Gateway resolutions applied by the quote store, by operation and outcome",
		}, []string{"operation", "outcome"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Time from dispatch to applied resolution",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"}),
		collectionSize: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "store_collection_size",
			Help:      "Number of quotes currently held by the store",
		}),
		announcements: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "daemon_announcements_total",
			Help:      "Quotes announced by the daily schedule job",
		}),
	}

	reg.MustRegister(p.resolutions, p.duration, p.collectionSize, p.announcements)

	return p
}

// ObserveResolution counts one applied resolution and its latency.
func (p *PrometheusRecorder) ObserveResolution(r ports.Resolution) {
	if p == nil {
		return
	}

	p.resolutions.WithLabelValues(string(r.Operation), string(r.Outcome)).Inc()
	p.duration.WithLabelValues(string(r.Operation)).Observe(r.Duration.Seconds())
}

// SetCollectionSize records the size of the collection after a change.
func (p *PrometheusRecorder) SetCollectionSize(n int) {
	if p == nil {
		return
	}

	p.collectionSize.Set(float64(n))
}

// AddAnnouncements counts quotes announced by the daemon.
func (p *PrometheusRecorder) AddAnnouncements(n int) {
	if p == nil || n <= 0 {
		return
	}

	p.announcements.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
