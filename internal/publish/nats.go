package publish

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/mbolaris/simkernel/internal/kernel"
)

// natsConn adapts a *nats.Conn to rawPublisher.
type natsConn struct {
	nc *nats.Conn
}

func (c *natsConn) Publish(ctx context.Context, subject string, payload []byte) error {
	_ = ctx
	return c.nc.Publish(subject, payload)
}

func (c *natsConn) Close() error {
	if c.nc != nil {
		c.nc.Close()
	}
	return nil
}

// NATSPublisher fans the per-frame delta stream out to a NATS subject,
// JSON-encoding each frame's spawns, removals, and energy deltas.
// Grounded on modules/physics-engine-template/publish/nats.go: same
// connect-then-publish seam, same default-URL fallback.
type NATSPublisher struct {
	conn    rawPublisher
	subject string
}

// NewNATSPublisher connects to url (nats.DefaultURL if empty) and returns a
// publisher that sends every frame to subject.
func NewNATSPublisher(ctx context.Context, url, subject string) (*NATSPublisher, error) {
	_ = ctx
	if url == "" {
		url = nats.DefaultURL
	}
	if subject == "" {
		subject = "simkernel.frames"
	}

	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("publish: connect nats %s: %w", url, err)
	}

	return &NATSPublisher{conn: &natsConn{nc: nc}, subject: subject}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, frame uint64, spawns []kernel.SpawnRequest, removals []kernel.RemovalRequest, deltas []kernel.EnergyDeltaRecord) error {
	payload, err := encodeFrame(frame, spawns, removals, deltas)
	if err != nil {
		return err
	}
	return p.conn.Publish(ctx, p.subject, payload)
}

func (p *NATSPublisher) Close() error {
	return p.conn.Close()
}
