// Package publish adapts the kernel's optional per-frame delta stream to
// external transports. The kernel itself only depends on the
// kernel.DeltaPublisher seam; this package supplies one concrete,
// disabled-by-default implementation.
package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mbolaris/simkernel/internal/kernel"
)

// frameEnvelope is the JSON-encoded shape published to the configured
// subject once per frame.
type frameEnvelope struct {
	Frame     uint64                     `json:"frame"`
	Spawns    []kernel.SpawnRequest      `json:"spawns,omitempty"`
	Removals  []kernel.RemovalRequest    `json:"removals,omitempty"`
	Deltas    []kernel.EnergyDeltaRecord `json:"energy_deltas,omitempty"`
}

func encodeFrame(frame uint64, spawns []kernel.SpawnRequest, removals []kernel.RemovalRequest, deltas []kernel.EnergyDeltaRecord) ([]byte, error) {
	payload, err := json.Marshal(frameEnvelope{Frame: frame, Spawns: spawns, Removals: removals, Deltas: deltas})
	if err != nil {
		return nil, fmt.Errorf("publish: encode frame %d: %w", frame, err)
	}
	return payload, nil
}

var _ kernel.DeltaPublisher = (*NATSPublisher)(nil)

// rawPublisher is the minimal transport seam a concrete publisher adapts;
// kept distinct from kernel.DeltaPublisher so a future transport only needs
// to satisfy this narrower contract.
type rawPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte) error
	Close() error
}
