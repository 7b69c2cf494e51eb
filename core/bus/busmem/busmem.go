// Package busmem is an in-memory double for core/bus, satisfying the same
// bus.Conn interface without a live broker. It exists purely for tests:
// core/worker, core/supervisor, and gateway/session tests dial a
// busmem.Network instead of a Redis pool.
package busmem

import (
	"context"
	"sync"
	"time"

	"github.com/evergreen-ils/osrf-go/core/bus"
	"github.com/evergreen-ils/osrf-go/core/message"
)

// Network is a shared, in-process message bus. Every address-keyed queue on
// the network is visible to every Conn dialed from it, mirroring how a real
// Redis broker is shared across bus participants.
type Network struct {
	mu     sync.Mutex
	queues map[string]chan *message.Envelope
}

// NewNetwork returns an empty Network.
func NewNetwork() *Network {
	return &Network{queues: make(map[string]chan *message.Envelope)}
}

func (n *Network) queue(addr string) chan *message.Envelope {
	n.mu.Lock()
	defer n.mu.Unlock()
	q, ok := n.queues[addr]
	if !ok {
		q = make(chan *message.Envelope, 256)
		n.queues[addr] = q
	}
	return q
}

// Dial returns a Conn bound to addr on this Network.
func (n *Network) Dial(addr bus.Address) bus.Conn {
	return &conn{network: n, addr: addr}
}

type conn struct {
	network *Network
	addr    bus.Address
}

func (c *conn) Address() bus.Address { return c.addr }

func (c *conn) Send(ctx context.Context, env *message.Envelope) error {
	q := c.network.queue(env.To.String())
	select {
	case q <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *conn) Recv(ctx context.Context, timeout time.Duration) (*message.Envelope, error) {
	q := c.network.queue(c.addr.String())

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case env := <-q:
		return env, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Clear drains every Envelope currently queued at c's own address without
// blocking.
func (c *conn) Clear(ctx context.Context) error {
	q := c.network.queue(c.addr.String())
	for {
		select {
		case <-q:
		default:
			return nil
		}
	}
}

func (c *conn) Close() error { return nil }

// Healthcheck always succeeds; busmem has no external dependency to fail.
func (n *Network) Healthcheck(ctx context.Context) error { return nil }
