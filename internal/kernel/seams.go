package kernel

import "context"

// MetricsRecorder is the narrow seam the kernel uses to report operational
// metrics, kept free of any particular metrics backend so internal/kernel
// never imports prometheus directly. internal/metrics implements this
// interface against a package-owned prometheus.Registry.
type MetricsRecorder interface {
	ObserveFrameDuration(seconds float64)
	SetEntitiesAlive(typeTag string, count float64)
	SetMutationQueueDepth(depth float64)
	IncSpawnRejected(typeTag string)
	IncFrameCompleted()
}

// NoOpMetricsRecorder discards every observation. It is the kernel's
// default when no recorder is installed.
type NoOpMetricsRecorder struct{}

func (NoOpMetricsRecorder) ObserveFrameDuration(float64)      {}
func (NoOpMetricsRecorder) SetEntitiesAlive(string, float64)  {}
func (NoOpMetricsRecorder) SetMutationQueueDepth(float64)     {}
func (NoOpMetricsRecorder) IncSpawnRejected(string)           {}
func (NoOpMetricsRecorder) IncFrameCompleted()                {}

// DeltaPublisher fans the per-frame delta stream out to an external sink.
// The kernel never requires one to be configured; Kernel.SetDeltaPublisher
// is an optional wiring point for an embedding process.
type DeltaPublisher interface {
	Publish(ctx context.Context, frame uint64, spawns []SpawnRequest, removals []RemovalRequest, deltas []EnergyDeltaRecord) error
	Close() error
}

// NoOpPublisher discards every frame. It is the kernel's default.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(context.Context, uint64, []SpawnRequest, []RemovalRequest, []EnergyDeltaRecord) error {
	return nil
}

func (NoOpPublisher) Close() error { return nil }
