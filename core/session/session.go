package session

import (
	"context"
	"sync"

	"github.com/evergreen-ils/osrf-go/core/bus"
	"github.com/evergreen-ils/osrf-go/core/message"
)

// Session is the worker-side handle on one conversation thread with a
// single client. A method's HandlerFunc uses it to stream Result messages
// and to learn the thread and peer it serves; everything else (addressing,
// trace ids, the bus connection) stays out of the handler's way.
type Session struct {
	self   bus.Address
	peer   bus.Address
	thread string
	conn   bus.Conn

	mu              sync.Mutex
	lastTrace       int64
	respondedDone   bool
	atomicBuffer    []message.Value
	atomicDepth     int
}

// New builds a Session that sends on conn, addressed as self, replying to
// peer on thread.
func New(conn bus.Conn, self, peer bus.Address, thread string) *Session {
	return &Session{conn: conn, self: self, peer: peer, thread: thread}
}

// Thread returns the thread id this session is scoped to.
func (s *Session) Thread() string { return s.thread }

// Peer returns the bus address of the calling client.
func (s *Session) Peer() bus.Address { return s.peer }

// SetLastThreadTrace records the thread_trace of the Request currently
// being served, so Respond/SendStatus can echo it back.
func (s *Session) SetLastThreadTrace(trace int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTrace = trace
	s.respondedDone = false
}

// RespondedComplete reports whether a Complete status has already been sent
// for the request currently in flight.
func (s *Session) RespondedComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.respondedDone
}

// BeginAtomic starts buffering Respond payloads instead of sending them
// immediately; EndAtomic sends them all as one Result. Calls nest: only
// the outermost EndAtomic flushes.
func (s *Session) BeginAtomic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atomicDepth++
}

// Respond sends payload as a Result message, or buffers it if an atomic
// block is open.
func (s *Session) Respond(ctx context.Context, payload message.Value) error {
	s.mu.Lock()
	trace := s.lastTrace
	if s.atomicDepth > 0 {
		s.atomicBuffer = append(s.atomicBuffer, payload)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.send(ctx, message.NewResult(trace, payload))
}

// EndAtomic closes one BeginAtomic block. When the outermost block closes,
// any buffered payloads are flushed as a single array Result.
func (s *Session) EndAtomic(ctx context.Context) error {
	s.mu.Lock()
	if s.atomicDepth == 0 {
		s.mu.Unlock()
		return nil
	}
	s.atomicDepth--
	if s.atomicDepth > 0 {
		s.mu.Unlock()
		return nil
	}
	buffered := s.atomicBuffer
	s.atomicBuffer = nil
	trace := s.lastTrace
	s.mu.Unlock()

	if len(buffered) == 0 {
		return nil
	}
	return s.send(ctx, message.NewResult(trace, message.Array(buffered...)))
}

// SendStatus sends a Status message for the request currently in flight.
func (s *Session) SendStatus(ctx context.Context, code message.StatusCode, text, kind string) error {
	s.mu.Lock()
	trace := s.lastTrace
	s.mu.Unlock()
	return s.send(ctx, message.NewStatus(trace, code, text, kind))
}

// SendComplete sends a Complete status and marks the in-flight request as
// having responded, so the worker loop does not send a second Complete.
func (s *Session) SendComplete(ctx context.Context) error {
	s.mu.Lock()
	trace := s.lastTrace
	s.respondedDone = true
	s.mu.Unlock()
	return s.send(ctx, message.NewStatus(trace, message.StatusComplete, "", "osrfConnectStatus"))
}

func (s *Session) send(ctx context.Context, m message.Message) error {
	env := message.NewEnvelope(s.peer, s.self, s.thread, m)
	return s.conn.Send(ctx, env)
}
