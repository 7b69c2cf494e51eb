package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/evergreen-ils/osrf-go/core/message"
)

// Pool lazily dials and caches one *redis.Client per domain, the DomainBus
// pattern: every Conn dialed for the same domain shares that one
// connection, since BLPOP/RPUSH are keyed by address regardless of how many
// logical listeners multiplex over the same client.
type Pool struct {
	cfg Config

	mu      sync.Mutex
	clients map[string]*redis.Client
	closed  bool
}

// NewPool builds a Pool from cfg. No connection is attempted until Dial or
// Client is first called for a domain.
func NewPool(cfg Config) (*Pool, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}
	return &Pool{cfg: cfg, clients: make(map[string]*redis.Client)}, nil
}

// Client returns the shared *redis.Client for domain, dialing and
// retrying up to cfg.RetryAttempts times if it is not already cached.
func (p *Pool) Client(ctx context.Context, domain string) (*redis.Client, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	if c, ok := p.clients[domain]; ok {
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	client, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = client.Close()
		return nil, ErrClosed
	}
	if existing, ok := p.clients[domain]; ok {
		_ = client.Close()
		return existing, nil
	}
	p.clients[domain] = client
	return client, nil
}

func (p *Pool) connect(ctx context.Context) (*redis.Client, error) {
	opts, err := redis.ParseURL(p.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("bus: parse url: %w", err)
	}

	var client *redis.Client
	var lastErr error

	attempts := p.cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		client = redis.NewClient(opts)
		dialCtx, cancel := context.WithTimeout(ctx, p.cfg.ConnectTimeout)
		lastErr = client.Ping(dialCtx).Err()
		cancel()
		if lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if i < attempts-1 {
			select {
			case <-time.After(p.cfg.RetryInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("bus: connect after %d attempts: %w", attempts, lastErr)
}

// Dial returns a Conn bound to addr, backed by the shared client for
// addr.Domain.
func (p *Pool) Dial(ctx context.Context, addr Address) (Conn, error) {
	client, err := p.Client(ctx, addr.Domain)
	if err != nil {
		return nil, err
	}
	return &redisConn{addr: addr, client: client}, nil
}

// Healthcheck pings the client for cfg.Domain, dialing it first if
// necessary. Its method value (or bus.Healthcheck(p)) fits
// core/health.Readiness.
func (p *Pool) Healthcheck(ctx context.Context) error {
	client, err := p.Client(ctx, p.cfg.Domain)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
	}
	return nil
}

// Close closes every cached client. Further Dial/Client calls fail with
// ErrClosed.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true

	var firstErr error
	for domain, c := range p.clients {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.clients, domain)
	}
	return firstErr
}

type redisConn struct {
	addr   Address
	client *redis.Client
}

func (c *redisConn) Address() Address { return c.addr }

func (c *redisConn) Send(ctx context.Context, env *message.Envelope) error {
	data, err := message.Encode(env)
	if err != nil {
		return err
	}
	return c.client.RPush(ctx, env.To.String(), data).Err()
}

func (c *redisConn) Recv(ctx context.Context, timeout time.Duration) (*message.Envelope, error) {
	res, err := c.client.BLPop(ctx, timeout, c.addr.String()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(res) < 2 {
		return nil, fmt.Errorf("bus: malformed BLPOP reply")
	}
	return message.Decode([]byte(res[1]))
}

// Clear deletes the list backing c's own address, discarding whatever is
// queued there. A plain DEL suffices: BusAddress keys exist only to hold the
// pending-envelope list, so removing the key removes every queued entry.
func (c *redisConn) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.addr.String()).Err()
}

// Close is a no-op: the underlying *redis.Client is owned and closed by the
// Pool that dialed this Conn, since it may be shared with other Conns on
// the same domain.
func (c *redisConn) Close() error { return nil }
