package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/evergreen-ils/osrf-go/core/bus"
	"github.com/evergreen-ils/osrf-go/core/busaddr"
	"github.com/evergreen-ils/osrf-go/core/logger"
	"github.com/evergreen-ils/osrf-go/core/message"
	"github.com/evergreen-ils/osrf-go/core/method"
	"github.com/evergreen-ils/osrf-go/core/session"
)

// Option configures a Worker at construction time.
type Option func(*Worker)

// WithLogger overrides the default no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Worker) { w.logger = l }
}

// WithConfig overrides the default Config.
func WithConfig(cfg Config) Option {
	return func(w *Worker) { w.cfg = cfg }
}

// WithStateChan attaches the channel a Worker publishes StateEvents to. A
// Supervisor should always provide one; without it state transitions are
// silently dropped.
func WithStateChan(ch chan<- StateEvent) Option {
	return func(w *Worker) { w.stateCh = ch }
}

// WithServiceConn gives the Worker a second bus.Conn bound to the shared
// service address, so stateless mode listens there (matching every other
// worker in the pool) instead of on its own client address. Without this
// option the Worker listens on its own address in both modes, which is
// sufficient for tests and single-worker setups but does not distribute
// new stateless requests across a pool.
func WithServiceConn(conn bus.Conn) Option {
	return func(w *Worker) { w.svcConn = conn }
}

// WithIdleWake registers a hook invoked whenever a stateless poll times out
// with no envelope to process, giving the host application a chance to do
// periodic work between requests.
func WithIdleWake(fn func(context.Context)) Option {
	return func(w *Worker) { w.idleWake = fn }
}

// WithEndSession registers a hook invoked when a stateless request reaches
// terminal completion, just before the Worker drops its ServerSession and
// returns to Idle.
func WithEndSession(fn func(context.Context)) Option {
	return func(w *Worker) { w.endSession = fn }
}

// Worker pulls Envelopes addressed to its own client address and dispatches
// each inner Message to the method registered for it.
type Worker struct {
	id         string
	self       bus.Address
	conn       bus.Conn
	svcConn    bus.Conn
	registry   *method.Registry
	cfg        Config
	logger     *slog.Logger
	stateCh    chan<- StateEvent
	idleWake   func(context.Context)
	endSession func(context.Context)

	connected bool
	sess      *session.Session
}

// New builds a Worker identified by id, serving service on domain, dialed
// from pool as conn (already bound to the worker's own client address).
func New(id, domain, service string, registry *method.Registry, conn bus.Conn, opts ...Option) *Worker {
	w := &Worker{
		id:       id,
		self:     busaddr.NewClient(domain, service),
		conn:     conn,
		registry: registry,
		cfg:      DefaultConfig(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.conn != nil {
		w.self = conn.Address()
	}
	return w
}

// Run drives the worker's dispatch loop until ctx is canceled or the
// configured request budget is exhausted, and is shaped to compose with
// errgroup.Group.Go.
func (w *Worker) Run(ctx context.Context) error {
	err := w.listen(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (w *Worker) listen(ctx context.Context) error {
	requests := 0

	for requests < w.cfg.MaxRequests {
		select {
		case <-ctx.Done():
			w.notify(Done)
			return ctx.Err()
		default:
		}

		recvConn := w.conn
		timeout := w.cfg.Keepalive
		if !w.connected {
			timeout = w.cfg.PollInterval
			if w.svcConn != nil {
				recvConn = w.svcConn
			}
			if err := recvConn.Clear(ctx); err != nil {
				w.logger.Error("worker clear failed", logger.Error(err), logger.ID("worker_id", w.id))
			}
		}

		env, err := recvConn.Recv(ctx, timeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.notify(Done)
				return err
			}
			// A broken bus connection is fatal to this worker: pause
			// briefly so a flapping broker cannot hot-loop respawns, then
			// exit and let the supervisor dial a fresh replacement.
			w.logger.Error("worker recv failed, exiting", logger.Error(err), logger.ID("worker_id", w.id))
			time.Sleep(time.Second)
			w.notify(Done)
			return err
		}

		if env == nil {
			if w.connected && w.sess != nil {
				w.notify(Active)
				w.logger.Warn("keepalive timeout, ending stateful session",
					logger.ID("worker_id", w.id), logger.ID("thread", w.sess.Thread()))
				_ = w.sess.SendStatus(ctx, message.StatusTimeout, "Timeout", "osrfConnectStatus")
				w.connected = false
				w.sess = nil
				w.notify(Idle)
				requests++
			} else if w.idleWake != nil {
				w.idleWake(ctx)
			}
			continue
		}

		w.notify(Active)
		w.handleEnvelope(ctx, env)

		if w.connected {
			continue
		}

		if w.endSession != nil {
			w.endSession(ctx)
		}
		w.sess = nil
		w.notify(Idle)
		requests++
	}

	w.notify(Done)
	return nil
}

func (w *Worker) handleEnvelope(ctx context.Context, env *message.Envelope) {
	if w.connected && w.sess != nil && w.sess.Thread() != env.Thread {
		var trace int64
		if len(env.Body) > 0 {
			trace = env.Body[0].ThreadTrace
		}
		intruder := session.New(w.conn, w.self, env.From, env.Thread)
		intruder.SetLastThreadTrace(trace)
		_ = intruder.SendStatus(ctx, message.StatusBadRequest,
			"worker already connected to another thread", "osrfConnectStatus")
		return
	}

	if w.sess == nil || w.sess.Thread() != env.Thread {
		w.sess = session.New(w.conn, w.self, env.From, env.Thread)
	}

	for _, m := range env.Body {
		w.handleMessage(ctx, m)
		// A Disconnect or terminal-error reply ends the conversation and
		// drops the session; any messages left in the body are discarded.
		if w.sess == nil {
			return
		}
	}
}

// endConversation returns the worker to stateless listening after a
// Disconnect or a terminal-error reply. The listen loop then runs its
// end-of-request path: EndSession hook, Idle notification, request count.
func (w *Worker) endConversation() {
	w.connected = false
	w.sess = nil
}

func (w *Worker) handleMessage(ctx context.Context, m message.Message) {
	w.sess.SetLastThreadTrace(m.ThreadTrace)

	switch m.Type {
	case message.TypeDisconnect:
		w.endConversation()
	case message.TypeConnect:
		if w.connected {
			_ = w.sess.SendStatus(ctx, message.StatusBadRequest, "Already connected", "osrfConnectStatus")
			w.endConversation()
			return
		}
		w.connected = true
		_ = w.sess.SendStatus(ctx, message.StatusOK, "OK", "osrfConnectStatus")
	case message.TypeRequest:
		w.handleRequest(ctx, m)
	default:
		_ = w.sess.SendStatus(ctx, message.StatusBadRequest, "Unexpected message type", "osrfConnectStatus")
		w.endConversation()
	}
}

func (w *Worker) handleRequest(ctx context.Context, m message.Message) {
	sess := w.sess

	d, ok := w.registry.Lookup(m.Method)
	if !ok {
		_ = sess.SendStatus(ctx, message.StatusNotFound, fmt.Sprintf("Method not found: %s", m.Method), "osrfMethodException")
		w.endConversation()
		return
	}

	if !d.Params.Matches(len(m.Params)) {
		text := fmt.Sprintf("%s: expects %s, got %d", m.Method, d.Params, len(m.Params))
		_ = sess.SendStatus(ctx, message.StatusBadRequest, text, "osrfMethodException")
		w.endConversation()
		return
	}

	if d.LogProtect {
		w.logger.Info("dispatching request", logger.Method(m.Method), logger.ID("params", "***"))
	} else {
		w.logger.Info("dispatching request", logger.Method(m.Method), logger.ID("params", m.Params))
	}

	w.invoke(ctx, d, sess, &m)
}

func (w *Worker) invoke(ctx context.Context, d method.Descriptor, sess *session.Session, m *message.Message) {
	if d.Atomic {
		sess.BeginAtomic()
	}

	defer func() {
		if p := recover(); p != nil {
			w.logger.Error("method handler panicked",
				logger.Method(m.Method), logger.Stack())
			_ = sess.SendStatus(ctx, message.StatusInternalServerError, fmt.Sprintf("%v", p), "osrfMethodException")
			w.endConversation()
		}
	}()

	if err := d.Handler(ctx, sess, m); err != nil {
		w.logger.Error("method handler failed", logger.Method(m.Method), logger.Error(err))
		_ = sess.SendStatus(ctx, message.StatusInternalServerError, err.Error(), "osrfMethodException")
		w.endConversation()
		return
	}

	if d.Atomic {
		if err := sess.EndAtomic(ctx); err != nil {
			w.logger.Error("failed to flush atomic response buffer", logger.Method(m.Method), logger.Error(err))
			_ = sess.SendStatus(ctx, message.StatusInternalServerError, err.Error(), "osrfMethodException")
			w.endConversation()
			return
		}
	}

	if !sess.RespondedComplete() {
		_ = sess.SendComplete(ctx)
	}
}

func (w *Worker) notify(s State) {
	if w.stateCh == nil {
		return
	}
	w.stateCh <- StateEvent{WorkerID: w.id, State: s}
}

// Healthcheck reports whether w is still bound to a live Conn.
func (w *Worker) Healthcheck(_ context.Context) error {
	if w.conn == nil {
		return ErrNotRunning
	}
	return nil
}
