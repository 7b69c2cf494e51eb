// Package router provides a radix tree HTTP router with type-safe
// middleware composition over a generic context type. The gateway uses it
// to stand up its small HTTP surface: the /ws upgrade endpoint and the
// health probes.
//
// # Basic Usage
//
//	import "github.com/evergreen-ils/osrf-go/core/router"
//
//	r := router.New[*router.Context]()
//
//	r.Get("/health/live", liveHandler)
//	r.Get("/ws", upgradeHandler)
//
//	http.ListenAndServe(":7682", r)
//
// A custom context type is plugged in with WithContextFactory; this module
// uses core/reqcontext so middleware can stash request-scoped values:
//
//	r := router.New[*reqcontext.Context](
//		router.WithContextFactory(reqcontext.New),
//	)
//
// # Path Parameters
//
// Patterns support named params ({id}), regexp params ({id:[0-9]+}), and a
// trailing wildcard (/files/*):
//
//	r.Get("/services/{name}", func(ctx *router.Context) handler.Response {
//		name := ctx.Param("name")
//		...
//	})
//
// # Middleware
//
// Use applies middleware to every route registered afterwards; With scopes
// additional middleware to the routes chained off its return value:
//
//	r.Use(middleware.RequestID[*router.Context]())
//	r.With(middleware.RateLimit[*router.Context](cfg)).Get("/ws", upgrade)
//
// Middleware must be registered before routes; Use panics otherwise.
//
// # Grouping and Mounting
//
//	r.Route("/health", func(h router.Router[*router.Context]) {
//		h.Get("/live", live)
//		h.Get("/ready", ready)
//	})
//
// Mount attaches an independently built Router beneath a pattern and strips
// the mount prefix before delegating.
//
// # Error Handling
//
// Handlers report failures by returning them (via response.Error or a
// rendering error); the router routes every failure, including recovered
// panics, through the configured error handler:
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler[*router.Context](response.JSONErrorHandler),
//	)
package router
