package supervisor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/evergreen-ils/osrf-go/core/bus"
	"github.com/evergreen-ils/osrf-go/core/logger"
	"github.com/evergreen-ils/osrf-go/core/method"
	"github.com/evergreen-ils/osrf-go/core/worker"
)

// Dialer mints a fresh bus.Conn, bound to a new unique client address, each
// time the Supervisor needs to (re)spawn a worker slot.
type Dialer func(ctx context.Context) (bus.Conn, error)

// ServiceDialer mints a bus.Conn bound to the shared service address that
// every worker in the pool listens on while stateless. The Supervisor dials
// it once and hands the same Conn to every worker slot it spawns.
type ServiceDialer func(ctx context.Context) (bus.Conn, error)

// Option configures a Supervisor at construction time.
type Option func(*Supervisor)

// WithLogger overrides the default no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Supervisor) { s.logger = l }
}

// WithConfig overrides the default pool-sizing Config.
func WithConfig(cfg Config) Option {
	return func(s *Supervisor) { s.cfg = cfg }
}

// WithWorkerConfig overrides the Config passed to every spawned Worker.
func WithWorkerConfig(cfg worker.Config) Option {
	return func(s *Supervisor) { s.workerCfg = cfg }
}

// WithServiceDialer gives the Supervisor a ServiceDialer, dialed once on
// first use and shared by every worker slot so stateless requests are
// distributed across the whole pool rather than pinned to one worker.
func WithServiceDialer(d ServiceDialer) Option {
	return func(s *Supervisor) { s.svcDialer = d }
}

// Supervisor keeps a pool of Workers running for one service, respawning
// any slot whose Worker exits until ctx is canceled or Stop is called.
type Supervisor struct {
	domain    string
	service   string
	registry  *method.Registry
	dialer    Dialer
	svcDialer ServiceDialer
	cfg       Config
	workerCfg worker.Config
	logger    *slog.Logger

	stopping atomic.Bool
	nextID   atomic.Int64

	svcConnOnce sync.Once
	svcConn     bus.Conn
	svcConnErr  error

	stateCh    chan worker.StateEvent
	lastEvent  atomic.Int64 // unix nanos of the most recent StateEvent observed
	liveWorker atomic.Int64 // count of worker slots currently running
	spawned    atomic.Int64 // total slots started, including MinWorkers and scale-ups

	slotsMu sync.Mutex
	slots   map[string]worker.State
	g       *errgroup.Group
	gctx    context.Context
}

// New builds a Supervisor for service on domain, registering methods from
// registry and dialing new worker connections via dialer.
func New(domain, service string, registry *method.Registry, dialer Dialer, opts ...Option) *Supervisor {
	s := &Supervisor{
		domain:    domain,
		service:   service,
		registry:  registry,
		dialer:    dialer,
		cfg:       DefaultConfig(),
		workerCfg: worker.DefaultConfig(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		stateCh:   make(chan worker.StateEvent, 256),
		slots:     make(map[string]worker.State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts cfg.MinWorkers worker slots and keeps them populated until ctx
// is canceled, shaped to compose with errgroup.Group.Go. Once canceled, Run
// waits up to cfg.ShutdownTimeout for every slot to exit before returning
// anyway.
func (s *Supervisor) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	s.g = g
	s.gctx = gctx

	go s.drainStates(gctx)

	for i := 0; i < s.cfg.MinWorkers; i++ {
		s.spawnSlot(gctx, g)
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		select {
		case err := <-done:
			return err
		case <-time.After(s.cfg.ShutdownTimeout):
			s.logger.Warn("supervisor: forced exit with worker slots still draining", logger.Component(s.service))
			return ctx.Err()
		}
	}
}

// spawnSlot starts one more runSlot goroutine under g, provided the pool
// has not already reached MaxWorkers. Safe to call concurrently.
func (s *Supervisor) spawnSlot(ctx context.Context, g *errgroup.Group) bool {
	for {
		cur := s.spawned.Load()
		if cur >= int64(s.cfg.MaxWorkers) {
			return false
		}
		if s.spawned.CompareAndSwap(cur, cur+1) {
			break
		}
	}
	g.Go(func() error { return s.runSlot(ctx) })
	return true
}

// Stop signals every worker slot to retire after its current worker exits,
// rather than respawning a replacement.
func (s *Supervisor) Stop() {
	s.stopping.Store(true)
}

func (s *Supervisor) runSlot(ctx context.Context) error {
	for {
		if s.stopping.Load() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, err := s.dialer(ctx)
		if err != nil {
			s.logger.Error("supervisor: dial failed", logger.Error(err), logger.Component(s.service))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		id := fmt.Sprintf("%s-%d", s.service, s.nextID.Add(1))
		opts := []worker.Option{
			worker.WithConfig(s.workerCfg),
			worker.WithLogger(s.logger),
			worker.WithStateChan(s.stateCh),
		}
		if svcConn, err := s.serviceConn(ctx); err != nil {
			s.logger.Error("supervisor: service dial failed", logger.Error(err), logger.Component(s.service))
		} else if svcConn != nil {
			opts = append(opts, worker.WithServiceConn(svcConn))
		}
		w := worker.New(id, s.domain, s.service, s.registry, conn, opts...)

		s.liveWorker.Add(1)
		err = w.Run(ctx)
		s.liveWorker.Add(-1)

		if err != nil {
			s.logger.Error("supervisor: worker exited with error",
				logger.Error(err), logger.ID("worker_id", id))
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// serviceConn lazily dials the shared service-address Conn on first use and
// caches it for every subsequent worker slot. Returns (nil, nil) when no
// ServiceDialer was configured.
func (s *Supervisor) serviceConn(ctx context.Context) (bus.Conn, error) {
	if s.svcDialer == nil {
		return nil, nil
	}
	s.svcConnOnce.Do(func() {
		s.svcConn, s.svcConnErr = s.svcDialer(ctx)
	})
	return s.svcConn, s.svcConnErr
}

// drainStates is the sole reader of stateCh: it tracks each worker slot's
// last reported state and, on sustained Active saturation (every slot
// Active, pool below MaxWorkers), spawns one additional slot per
// observation until the pool reaches MaxWorkers.
func (s *Supervisor) drainStates(ctx context.Context) {
	for {
		select {
		case ev, ok := <-s.stateCh:
			if !ok {
				return
			}
			s.lastEvent.Store(time.Now().UnixNano())
			s.logger.Debug("worker state", logger.ID("worker_id", ev.WorkerID), logger.ID("state", ev.State.String()))
			s.recordState(ev)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Supervisor) recordState(ev worker.StateEvent) {
	s.slotsMu.Lock()
	if ev.State == worker.Done {
		delete(s.slots, ev.WorkerID)
	} else {
		s.slots[ev.WorkerID] = ev.State
	}
	saturated := len(s.slots) > 0
	for _, st := range s.slots {
		if st != worker.Active {
			saturated = false
			break
		}
	}
	s.slotsMu.Unlock()

	if saturated && !s.stopping.Load() && s.g != nil {
		if s.spawnSlot(s.gctx, s.g) {
			s.logger.Info("supervisor: scaling up on sustained saturation",
				logger.Component(s.service), logger.Count("pool_size", int(s.spawned.Load())))
		}
	}
}

// Healthcheck reports ErrNoWorkers if no worker slot is currently running.
func (s *Supervisor) Healthcheck(_ context.Context) error {
	if s.liveWorker.Load() <= 0 {
		return ErrNoWorkers
	}
	return nil
}
