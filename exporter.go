package voxcollide

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter publishes strategy metrics to Prometheus. It owns its registry so
// several exporters can live in one process.
type Exporter struct {
	registry *prometheus.Registry

	activeColliders *prometheus.GaugeVec
	totalFaces      *prometheus.GaugeVec
	updateTime      *prometheus.GaugeVec
	initTime        *prometheus.GaugeVec
	failedOps       *prometheus.CounterVec
	chunkLoads      *prometheus.CounterVec
	chunkUnloads    *prometheus.CounterVec
}

func NewExporter() *Exporter {
	labels := []string{"strategy"}
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		activeColliders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "voxcollide",
			Name:      "active_colliders",
			Help:      "Colliders currently attached to the physics world.",
		}, labels),
		totalFaces: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "voxcollide",
			Name:      "total_faces",
			Help:      "Exposed faces held by attached colliders.",
		}, labels),
		updateTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "voxcollide",
			Name:      "update_time_microseconds",
			Help:      "Duration of the last update call.",
		}, labels),
		initTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "voxcollide",
			Name:      "init_time_milliseconds",
			Help:      "Duration of the init call.",
		}, labels),
		failedOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxcollide",
			Name:      "failed_operations_total",
			Help:      "Collider operations that failed and were skipped.",
		}, labels),
		chunkLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxcollide",
			Name:      "chunk_loads_total",
			Help:      "Chunks that received a collider.",
		}, labels),
		chunkUnloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxcollide",
			Name:      "chunk_unloads_total",
			Help:      "Chunks whose collider was destroyed.",
		}, labels),
	}

	e.registry.MustRegister(
		e.activeColliders,
		e.totalFaces,
		e.updateTime,
		e.initTime,
		e.failedOps,
		e.chunkLoads,
		e.chunkUnloads,
	)
	return e
}

func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Observe copies a snapshot into the gauges. Failures are counted as they
// happen, so FailedOps is not read here.
func (e *Exporter) Observe(m Metrics) {
	l := prometheus.Labels{"strategy": m.StrategyName}
	e.activeColliders.With(l).Set(float64(m.ActiveColliders))
	e.totalFaces.With(l).Set(float64(m.TotalFaces))
	e.updateTime.With(l).Set(m.UpdateTimeUs)
	e.initTime.With(l).Set(m.InitTimeMs)
}

func (e *Exporter) failed(strategy string, n int) {
	if n > 0 {
		e.failedOps.WithLabelValues(strategy).Add(float64(n))
	}
}

func (e *Exporter) chunksChanged(strategy string, loaded, unloaded int) {
	l := prometheus.Labels{"strategy": strategy}
	if loaded > 0 {
		e.chunkLoads.With(l).Add(float64(loaded))
	}
	if unloaded > 0 {
		e.chunkUnloads.With(l).Add(float64(unloaded))
	}
}
