package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/evergreen-ils/osrf-go/core/bus"
	"github.com/evergreen-ils/osrf-go/core/busaddr"
	"github.com/evergreen-ils/osrf-go/core/logger"
	"github.com/evergreen-ils/osrf-go/core/message"
)

// maxThreadBytes bounds the thread correlator a client may choose.
const maxThreadBytes = 256

type eventKind int

const (
	eventInbound eventKind = iota
	eventOutbound
	eventPing
	eventWakeup
)

type sessionEvent struct {
	kind  eventKind
	frame []byte
	env   *message.Envelope
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithConfig overrides the default Config.
func WithConfig(cfg Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Session is the per-WebSocket main loop. It owns the single channel every
// goroutine feeds and is the only thing that writes the WebSocket or sends
// on busConn; see the package doc for the full concurrency contract.
type Session struct {
	id      string
	ws      *websocket.Conn
	busConn bus.Conn
	domain  string
	cfg     Config
	logger  *slog.Logger

	serverShutdown  *atomic.Bool
	sessionShutdown atomic.Bool

	events chan sessionEvent
	done   chan struct{}

	inFlight int
	backlog  [][]byte
	threads  *threadCache

	wg sync.WaitGroup
}

// New builds a Session relaying between ws and busConn, the latter already
// bound to a unique client address dialed by the caller (gateway/server).
// serverShutdown is a flag shared across every session on the server,
// flipped once on SIGTERM/SIGINT; it may be nil, e.g. in tests that drive a
// Session directly without a Server.
func New(id string, ws *websocket.Conn, busConn bus.Conn, domain string, serverShutdown *atomic.Bool, opts ...Option) *Session {
	s := &Session{
		id:             id,
		ws:             ws,
		busConn:        busConn,
		domain:         domain,
		cfg:            DefaultConfig(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		serverShutdown: serverShutdown,
		events:         make(chan sessionEvent, 64),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.threads = newThreadCache(s.cfg.MaxThreadCacheSize)
	return s
}

// Run drives the session until both transports are shut down, one way or
// another. It blocks until the underlying WebSocket connection has been
// closed and both child goroutines have exited.
func (s *Session) Run(ctx context.Context) error {
	s.configureControlHandlers()

	s.wg.Add(2)
	go s.runInbound()
	go s.runOutbound(ctx)

	s.runMain(ctx)

	close(s.done)
	_ = s.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	_ = s.ws.Close()
	s.wg.Wait()

	return nil
}

// configureControlHandlers wires Ping/Close frames back through the shared
// event channel instead of letting gorilla/websocket's default handlers
// write directly from the inbound goroutine, preserving the single-writer
// discipline.
func (s *Session) configureControlHandlers() {
	s.ws.SetPingHandler(func(data string) error {
		select {
		case s.events <- sessionEvent{kind: eventPing, frame: []byte(data)}:
		default:
		}
		return nil
	})
	s.ws.SetCloseHandler(func(code int, text string) error {
		s.sessionShutdown.Store(true)
		s.pushWakeup()
		return nil
	})
}

func (s *Session) runInbound() {
	defer s.wg.Done()

	for {
		msgType, data, err := s.ws.ReadMessage()
		if err != nil {
			s.sessionShutdown.Store(true)
			s.pushWakeup()
			return
		}

		if msgType != websocket.TextMessage {
			s.logger.Warn("session: ignoring non-text frame", logger.ID("session_id", s.id))
			continue
		}

		select {
		case s.events <- sessionEvent{kind: eventInbound, frame: data}:
		case <-s.done:
			return
		}
	}
}

func (s *Session) runOutbound(ctx context.Context) {
	defer s.wg.Done()

	for {
		if s.sessionShutdown.Load() {
			return
		}

		env, err := s.busConn.Recv(ctx, s.cfg.BusPollInterval)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			s.logger.Error("session: bus recv failed", logger.Error(err), logger.ID("session_id", s.id))
			s.sessionShutdown.Store(true)
			s.pushWakeup()
			return
		}
		if env == nil {
			continue
		}

		select {
		case s.events <- sessionEvent{kind: eventOutbound, env: env}:
		case <-s.done:
			return
		}
	}
}

func (s *Session) pushWakeup() {
	select {
	case s.events <- sessionEvent{kind: eventWakeup}:
	default:
	}
}

func (s *Session) serverShuttingDown() bool {
	return s.serverShutdown != nil && s.serverShutdown.Load()
}

func (s *Session) runMain(ctx context.Context) {
	inShutdown := false
	var deadline time.Time

	for {
		select {
		case ev := <-s.events:
			// A draining session takes no new frames; in-flight replies
			// and control traffic still flow.
			if inShutdown && ev.kind == eventInbound {
				break
			}
			s.handleEvent(ctx, ev)
		case <-time.After(s.cfg.ShutdownPollInterval):
		case <-ctx.Done():
			s.sessionShutdown.Store(true)
		}

		if !inShutdown && (s.sessionShutdown.Load() || s.serverShuttingDown()) {
			inShutdown = true
			deadline = time.Now().Add(s.cfg.ShutdownMaxWait)
			s.logger.Info("session: shutdown initiated", logger.ID("session_id", s.id))
		}

		s.drainBacklog(ctx)

		if inShutdown && (s.inFlight == 0 && len(s.backlog) == 0 || time.Now().After(deadline)) {
			return
		}
	}
}

func (s *Session) handleEvent(ctx context.Context, ev sessionEvent) {
	switch ev.kind {
	case eventInbound:
		s.admitInbound(ev.frame)
	case eventOutbound:
		s.relayOutbound(ev.env)
	case eventPing:
		if err := s.ws.WriteControl(websocket.PongMessage, ev.frame, time.Now().Add(time.Second)); err != nil {
			s.logger.Warn("session: pong write failed", logger.Error(err), logger.ID("session_id", s.id))
		}
	case eventWakeup:
	}
}

// admitInbound applies the size/backlog admission policy to a raw frame
// just read off the WebSocket. It never blocks and never relays directly;
// relaying happens from drainBacklog so in-flight stays authoritative.
func (s *Session) admitInbound(frame []byte) {
	if int64(len(frame)) > s.cfg.MaxMessageSize {
		s.logger.Error("session: dropping oversized frame", logger.Error(ErrOversizedFrame), logger.ID("session_id", s.id))
		return
	}
	if len(s.backlog) >= s.cfg.MaxBacklog {
		s.logger.Error("session: dropping frame, backlog full", logger.Error(ErrBacklogFull), logger.ID("session_id", s.id))
		return
	}
	s.backlog = append(s.backlog, frame)
}

func (s *Session) drainBacklog(ctx context.Context) {
	for s.inFlight < s.cfg.MaxParallel && len(s.backlog) > 0 {
		frame := s.backlog[0]
		s.backlog = s.backlog[1:]
		s.relayInbound(ctx, frame)
	}
}

// relayInbound decodes one backlog frame and, if valid, sends it onto the
// bus as a single Envelope. Validation failures are logged and the frame is
// dropped; the connection stays open per the protocol-violation
// disposition in the error handling design.
func (s *Session) relayInbound(ctx context.Context, frame []byte) {
	var in inboundFrame
	if err := json.Unmarshal(frame, &in); err != nil {
		s.logger.Error("session: malformed inbound frame", logger.Error(ErrMalformedFrame), logger.ID("session_id", s.id))
		return
	}
	if in.Thread == "" || len(in.Thread) > maxThreadBytes {
		s.logger.Error("session: inbound frame with bad thread id", logger.Error(ErrProtocolViolation), logger.ID("session_id", s.id))
		return
	}

	recipient, cached := s.threads.Get(in.Thread)
	if !cached && in.Service == "" {
		s.logger.Error("session: inbound frame missing service on uncached thread",
			logger.Error(ErrProtocolViolation), logger.ID("session_id", s.id), logger.ID("thread", in.Thread))
		return
	}

	msgs, err := decodeInnerMessages(in.OsrfMsg)
	if err != nil {
		s.logger.Error("session: malformed osrf_msg", logger.Error(ErrMalformedFrame), logger.ID("session_id", s.id), logger.ID("thread", in.Thread))
		return
	}

	for _, m := range msgs {
		switch m.Type {
		case message.TypeConnect, message.TypeRequest, message.TypeDisconnect:
		default:
			s.logger.Error("session: rejecting envelope with invalid ingress message type",
				logger.Error(ErrProtocolViolation), logger.ID("session_id", s.id),
				logger.ID("thread", in.Thread), logger.ID("type", string(m.Type)))
			return
		}
	}

	for i := range msgs {
		msgs[i].Ingress = WebsocketIngress
		switch msgs[i].Type {
		case message.TypeConnect, message.TypeRequest:
			s.inFlight++
		case message.TypeDisconnect:
			s.threads.Evict(in.Thread)
		}
	}

	to := busaddr.NewRouter(s.domain)
	if cached {
		to = recipient
	}

	traceID := in.LogXid
	if traceID == "" {
		traceID = uuid.NewString()
	}

	env := message.NewEnvelope(to, s.busConn.Address(), in.Thread, msgs...)
	env.TraceID = traceID

	if err := s.busConn.Send(ctx, env); err != nil {
		s.logger.Error("session: bus send failed", logger.Error(err), logger.ID("session_id", s.id), logger.ID("thread", in.Thread))
	}
}

// decodeInnerMessages normalizes osrf_msg, which may be a single Message
// object or an array of them, to a slice.
func decodeInnerMessages(raw json.RawMessage) ([]message.Message, error) {
	var arr []message.Message
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr, nil
	}

	var one message.Message
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	return []message.Message{one}, nil
}

// relayOutbound applies the outbound relay semantics to an Envelope just
// received from the bus and writes the resulting WebSocket text frame.
func (s *Session) relayOutbound(env *message.Envelope) {
	transportError := false

	for _, m := range env.Body {
		if m.Type != message.TypeStatus {
			continue
		}
		switch {
		case m.Code == message.StatusOK:
			s.decrementInFlight()
			s.threads.Put(env.Thread, env.From)
		case m.Code == message.StatusComplete:
			s.decrementInFlight()
		case m.Code.IsError():
			s.decrementInFlight()
			transportError = true
			s.threads.Evict(env.Thread)
		}
	}

	out := outboundFrame{
		OxrfXid:        env.TraceID,
		Thread:         env.Thread,
		OsrfMsg:        env.Body,
		TransportError: transportError,
	}

	data, err := json.Marshal(out)
	if err != nil {
		s.logger.Error("session: encode outbound frame failed", logger.Error(err), logger.ID("session_id", s.id))
		return
	}

	if err := s.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Error("session: websocket write failed", logger.Error(err), logger.ID("session_id", s.id))
		s.sessionShutdown.Store(true)
	}
}

func (s *Session) decrementInFlight() {
	if s.inFlight > 0 {
		s.inFlight--
	}
}
