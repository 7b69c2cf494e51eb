package bus

import (
	"context"
	"time"

	"github.com/evergreen-ils/osrf-go/core/busaddr"
	"github.com/evergreen-ils/osrf-go/core/message"
)

// Address re-exports busaddr.Address so callers of this package rarely need
// to import core/busaddr directly.
type Address = busaddr.Address

// Conn is a single logical bus participant bound to one Address. Multiple
// Conns for the same domain may share one underlying broker connection; see
// Pool.
type Conn interface {
	// Address returns the bus address this Conn receives on.
	Address() Address
	// Send pushes env onto the queue of env.To.
	Send(ctx context.Context, env *message.Envelope) error
	// Recv blocks until an Envelope arrives on this Conn's own address or
	// timeout elapses, in which case it returns (nil, nil).
	Recv(ctx context.Context, timeout time.Duration) (*message.Envelope, error)
	// Clear discards any Envelopes already queued at this Conn's own
	// address, so a worker switching from a connected conversation back to
	// stateless listening never mistakes a stale message for a new one.
	Clear(ctx context.Context) error
	// Close releases any resources private to this Conn. It never closes a
	// shared underlying broker connection owned by a Pool.
	Close() error
}
