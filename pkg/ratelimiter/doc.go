// Package ratelimiter provides token bucket rate limiting with pluggable
// storage backends.
//
// The gateway uses it, through middleware.RateLimit, to throttle WebSocket
// connection attempts per client IP before the upgrade handshake runs — a
// layer distinct from the wire-level max-clients/max-parallel counters,
// which only bound connections that were already admitted.
//
// # Token Bucket
//
// A bucket holds up to Capacity tokens and gains RefillRate tokens every
// RefillInterval; each request consumes one. Bursts up to Capacity pass
// immediately, and sustained traffic is held to the refill rate.
//
//	store := ratelimiter.NewMemoryStore()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       20,          // connection attempts per IP
//		RefillRate:     20,
//		RefillInterval: time.Minute,
//	})
//
//	result, err := limiter.Allow(ctx, clientIP)
//	if !result.Allowed() {
//		// reject with Retry-After = result.RetryAfter()
//	}
//
// AllowN consumes several tokens at once, Status inspects a bucket without
// consuming, and Reset clears a key administratively.
//
// # Storage
//
// MemoryStore keeps buckets in process memory and expires idle keys via a
// background janitor (MemoryStore.Run, composed under the server's
// errgroup). It is the right backend for the gateway, where each process
// admits its own connections; a shared backend would only matter if one
// client's attempts were spread across processes.
//
// # Errors
//
//   - ErrInvalidConfig: non-positive capacity, rate, or interval
//   - ErrInvalidTokenCount: AllowN called with n < 1
//
// Storage errors are propagated as-is.
package ratelimiter
