// Package metrics exposes the kernel's Prometheus instrumentation,
// registered against a package-owned registry rather than a shared global
// one, since the kernel has no Kubernetes control plane to piggyback on.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// KernelMetrics implements kernel.MetricsRecorder against a dedicated
// prometheus.Registry.
type KernelMetrics struct {
	registry *prometheus.Registry

	frameDuration      prometheus.Histogram
	entitiesAlive      *prometheus.GaugeVec
	mutationQueueDepth prometheus.Gauge
	spawnRejectedTotal *prometheus.CounterVec
	framesTotal        prometheus.Counter
}

// NewKernelMetrics constructs and registers every kernel metric against a
// fresh registry, mirroring controllers/metrics.go's var-block + MustRegister
// idiom.
func NewKernelMetrics() *KernelMetrics {
	m := &KernelMetrics{
		registry: prometheus.NewRegistry(),

		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kernel_frame_duration_seconds",
			Help:    "Wall-clock time taken to run one Update() tick.",
			Buckets: prometheus.DefBuckets,
		}),
		entitiesAlive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kernel_entities_alive",
			Help: "Number of entities currently in the collection, by type.",
		}, []string{"type"}),
		mutationQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kernel_mutation_queue_depth",
			Help: "Total pending spawns plus pending removals awaiting the next commit.",
		}),
		spawnRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kernel_spawn_rejected_total",
			Help: "Number of spawn requests declined at commit, by entity type.",
		}, []string{"type"}),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kernel_frames_total",
			Help: "Total number of frames advanced.",
		}),
	}

	m.registry.MustRegister(
		m.frameDuration,
		m.entitiesAlive,
		m.mutationQueueDepth,
		m.spawnRejectedTotal,
		m.framesTotal,
	)

	return m
}

// Registry exposes the underlying registry so an embedding process can
// serve it (e.g. via promhttp.HandlerFor).
func (m *KernelMetrics) Registry() *prometheus.Registry { return m.registry }

func (m *KernelMetrics) ObserveFrameDuration(seconds float64) {
	m.frameDuration.Observe(seconds)
}

func (m *KernelMetrics) SetEntitiesAlive(typeTag string, count float64) {
	m.entitiesAlive.WithLabelValues(typeTag).Set(count)
}

func (m *KernelMetrics) SetMutationQueueDepth(depth float64) {
	m.mutationQueueDepth.Set(depth)
}

func (m *KernelMetrics) IncSpawnRejected(typeTag string) {
	m.spawnRejectedTotal.WithLabelValues(typeTag).Inc()
}

func (m *KernelMetrics) IncFrameCompleted() {
	m.framesTotal.Inc()
}
