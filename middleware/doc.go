// Package middleware provides the HTTP middleware the gateway composes in
// front of its WebSocket upgrade endpoint and health probes. Each
// middleware is a generic handler.Middleware[C] usable with any
// handler.Context implementation.
//
// # Available Middleware
//
//   - RequestID: mints a unique request identifier before the upgrade so a
//     connection's whole lifetime can be correlated in logs
//   - ClientIP: resolves the real peer address behind a reverse proxy
//     (via pkg/clientip) for rate-limit keying and access logging
//   - BodyLimit: caps the pre-upgrade HTTP request body
//   - RateLimit: throttles connection attempts per client IP with
//     pkg/ratelimiter's token bucket
//   - Logging: emits the structured access log line for the upgrade
//     request itself
//
// # Basic Usage
//
// Most middleware can be used with minimal configuration:
//
//	import "github.com/evergreen-ils/osrf-go/middleware"
//
//	mux := router.New[*reqcontext.Context](router.WithContextFactory(reqcontext.New))
//	mux.Use(middleware.RequestID[*reqcontext.Context]())
//	mux.Use(middleware.ClientIP[*reqcontext.Context]())
//	mux.Use(middleware.LoggingWithLogger[*reqcontext.Context](log))
//
//	// Retrieve values in handlers
//	func handler(ctx *reqcontext.Context) handler.Response {
//		if requestID, ok := middleware.GetRequestID(ctx); ok {
//			// Use request ID for logging
//		}
//		return response.String("ok")
//	}
//
// # Advanced Configuration
//
// Use WithConfig constructors for customization:
//
//	mux.Use(middleware.ClientIPWithConfig[*reqcontext.Context](middleware.ClientIPConfig{
//		StoreInContext: true,
//		StoreInHeader:  true,
//		HeaderName:     "X-Client-IP",
//		Skip: func(ctx handler.Context) bool {
//			return strings.HasPrefix(ctx.Request().URL.Path, "/health")
//		},
//	}))
//
// Per-route middleware composes through the router's With:
//
//	mux.With(
//		middleware.BodyLimitWithSize[*reqcontext.Context](4*middleware.KB),
//		middleware.RateLimit[*reqcontext.Context](middleware.RateLimitConfig{Limiter: limiter}),
//	).Get("/ws", upgradeHandler)
package middleware
