package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry agrupa las métricas Prometheus del servicio
type Registry struct {
	reg *prometheus.Registry

	BatchUpdates      prometheus.Counter
	ItemsApplied      prometheus.Counter
	ItemConflicts     prometheus.Counter
	BatchLatencySec   prometheus.Histogram
	FreightProrations prometheus.Counter
	EventsPublished   prometheus.Counter
}

// NewRegistry crea y registra las métricas del servicio
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	batchUpdates := prometheus.NewCounter(prometheus.CounterOpts{Name: "pipeline_batch_updates_total"})
	itemsApplied := prometheus.NewCounter(prometheus.CounterOpts{Name: "pipeline_batch_items_applied_total"})
	itemConflicts := prometheus.NewCounter(prometheus.CounterOpts{Name: "pipeline_batch_conflicts_total"})
	batchLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipeline_batch_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	freightProrations := prometheus.NewCounter(prometheus.CounterOpts{Name: "pipeline_freight_prorations_total"})
	eventsPublished := prometheus.NewCounter(prometheus.CounterOpts{Name: "pipeline_events_published_total"})

	r.MustRegister(batchUpdates, itemsApplied, itemConflicts, batchLatency, freightProrations, eventsPublished)

	return &Registry{
		reg:               r,
		BatchUpdates:      batchUpdates,
		ItemsApplied:      itemsApplied,
		ItemConflicts:     itemConflicts,
		BatchLatencySec:   batchLatency,
		FreightProrations: freightProrations,
		EventsPublished:   eventsPublished,
	}
}

// Handler expone las métricas en formato Prometheus
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
