package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/evergreen-ils/osrf-go/core/bus"
	"github.com/evergreen-ils/osrf-go/core/busaddr"
	"github.com/evergreen-ils/osrf-go/core/handler"
	"github.com/evergreen-ils/osrf-go/core/health"
	"github.com/evergreen-ils/osrf-go/core/logger"
	"github.com/evergreen-ils/osrf-go/core/reqcontext"
	"github.com/evergreen-ils/osrf-go/core/router"
	coreserver "github.com/evergreen-ils/osrf-go/core/server"
	"github.com/evergreen-ils/osrf-go/gateway/session"
	"github.com/evergreen-ils/osrf-go/middleware"
	"github.com/evergreen-ils/osrf-go/pkg/ratelimiter"
)

// gatewayService is the bus-address service name the gateway dials its own
// client connections under; it never serves application methods itself.
const gatewayService = "gateway"

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// Server is the Gateway's HTTP listener: it upgrades admitted connections
// to WebSocket and hands each one to a freshly built gateway/session.Session,
// bounding how many sessions run concurrently and coordinating their
// shutdown with the process as a whole.
type Server struct {
	cfg    Config
	domain string
	pool   *bus.Pool
	logger *slog.Logger

	upgrader websocket.Upgrader
	sem      chan struct{}
	limiter  *ratelimiter.MemoryStore

	httpHandler http.Handler
	coreSrv     *coreserver.Server

	shutdown atomic.Bool
	wg       sync.WaitGroup
}

// New builds a Server listening per cfg, dialing fresh gateway client
// connections from pool, and routing newly admitted inbound traffic for
// domain.
func New(cfg Config, domain string, pool *bus.Pool, opts ...Option) (*Server, error) {
	if pool == nil {
		return nil, ErrMissingBusPool
	}

	s := &Server{
		cfg:    cfg,
		domain: domain,
		pool:   pool,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sem:    make(chan struct{}, cfg.MaxClients),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		limiter: ratelimiter.NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpHandler = s.buildRouter()
	s.coreSrv = coreserver.New(cfg.Addr(),
		coreserver.WithLogger(s.logger),
		coreserver.WithShutdownTimeout(cfg.ShutdownMaxWait))

	return s, nil
}

func (s *Server) buildRouter() http.Handler {
	limiter, err := ratelimiter.NewBucket(s.limiter, ratelimiter.Config{
		Capacity:       s.cfg.ConnectRateLimit,
		RefillRate:     s.cfg.ConnectRateLimit,
		RefillInterval: time.Minute,
	})
	if err != nil {
		// Only reachable with a non-positive ConnectRateLimit, which
		// env-tag defaults never produce; fall back to an unthrottled
		// no-op limiter rather than panicking the gateway into existence.
		limiter, _ = ratelimiter.NewBucket(s.limiter, ratelimiter.Config{
			Capacity: 1 << 30, RefillRate: 1 << 30, RefillInterval: time.Minute,
		})
		s.logger.Error("gateway: invalid connect rate limit, disabling", logger.Error(err))
	}

	mux := router.New[*reqcontext.Context](
		router.WithContextFactory(reqcontext.New),
		router.WithLogger[*reqcontext.Context](s.logger),
		router.WithMiddleware[*reqcontext.Context](
			middleware.RequestID[*reqcontext.Context](),
			middleware.ClientIP[*reqcontext.Context](),
			middleware.LoggingWithLogger[*reqcontext.Context](s.logger),
		),
	)

	mux.Get("/health/live", health.Liveness[*reqcontext.Context])
	mux.Get("/health/ready", health.Readiness[*reqcontext.Context](s.logger, bus.Healthcheck(s.pool)))

	mux.With(
		middleware.BodyLimitWithSize[*reqcontext.Context](4*middleware.KB),
		middleware.RateLimit[*reqcontext.Context](middleware.RateLimitConfig{
			Limiter:    limiter,
			SetHeaders: true,
		}),
	).Get("/ws", s.handleUpgrade)

	return mux
}

// handleUpgrade applies the pool-before-upgrade admission ordering: a
// connection attempt is rejected outright, with no WebSocket handshake
// performed, once MaxClients sessions are already admitted.
func (s *Server) handleUpgrade(ctx *reqcontext.Context) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		select {
		case s.sem <- struct{}{}:
		default:
			http.Error(w, "gateway: client pool saturated", http.StatusServiceUnavailable)
			s.logger.Warn("gateway: rejecting connection, pool saturated", logger.Component("server"))
			return nil
		}

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			<-s.sem
			s.logger.Error("gateway: websocket upgrade failed", logger.Error(err))
			return nil
		}

		s.wg.Add(1)
		go s.runSession(conn)
		return nil
	}
}

// runSession dials this session's own bus connection, builds its Session,
// and drives it to completion, releasing the admission slot on exit.
func (s *Server) runSession(ws *websocket.Conn) {
	defer s.wg.Done()
	defer func() { <-s.sem }()
	defer func() { _ = ws.Close() }()

	id := uuid.NewString()

	busConn, err := s.pool.Dial(context.Background(), busaddr.NewClient(s.domain, gatewayService))
	if err != nil {
		s.logger.Error("gateway: bus dial failed", logger.Error(err), logger.ID("session_id", id))
		return
	}
	defer func() { _ = busConn.Close() }()

	sess := session.New(id, ws, busConn, s.domain, &s.shutdown,
		session.WithConfig(s.cfg.sessionConfig()),
		session.WithLogger(s.logger))

	if err := sess.Run(context.Background()); err != nil {
		s.logger.Error("gateway: session exited with error", logger.Error(err), logger.ID("session_id", id))
	}
}

// Run drives the Server until ctx is canceled or a SIGTERM/SIGINT arrives,
// shaped to compose with errgroup.Group.Go.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.coreSrv.Run(gctx, s.httpHandler))
	g.Go(s.limiter.Run(gctx))
	g.Go(func() error {
		<-gctx.Done()
		s.shutdown.Store(true)
		return nil
	})

	err := g.Wait()
	s.waitSessions()
	return err
}

// waitSessions blocks until every admitted session has exited under its own
// shutdown deadline, with a small grace period beyond that bound in case a
// session is mid-shutdown-timer when the wait begins.
func (s *Server) waitSessions() {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.cfg.ShutdownMaxWait + 5*time.Second):
		s.logger.Warn("gateway: forced exit with sessions still draining")
	}
}

// Healthcheck reports ErrPoolSaturated once every admission slot is in use,
// suitable for wiring into core/health.Readiness alongside the bus check.
func (s *Server) Healthcheck(context.Context) error {
	if len(s.sem) >= s.cfg.MaxClients {
		return ErrPoolSaturated
	}
	return nil
}
