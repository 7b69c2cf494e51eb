// Package handler provides type-safe HTTP handler abstractions with support
// for custom context types, middleware composition, and clean error handling.
//
// The package defines core types that enable building HTTP handlers with
// Go generics for compile-time type safety and clean separation between
// business logic and HTTP concerns.
//
// # Basic Usage
//
// Handlers return Response functions:
//
//	import (
//		"net/http"
//		"github.com/evergreen-ils/osrf-go/core/handler"
//		"github.com/evergreen-ils/osrf-go/core/response"
//	)
//
//	func readyHandler(ctx handler.Context) handler.Response {
//		return response.String("READY")
//	}
//
// # Context Interface
//
// The Context interface extends standard context.Context with HTTP methods:
//
//	type Context interface {
//		context.Context                      // Standard context methods
//		Request() *http.Request              // Access to HTTP request
//		ResponseWriter() http.ResponseWriter // Access to response writer
//		Param(key string) string             // Get path parameters
//		SetValue(key, val any)               // Store request-scoped values
//	}
//
// # Core Types
//
//	// Response renders HTTP responses and returns any rendering errors
//	type Response func(w http.ResponseWriter, r *http.Request) error
//
//	// HandlerFunc is a type-safe handler with custom context support
//	type HandlerFunc[C Context] func(ctx C) Response
//
//	// ErrorHandler processes errors from handler or response execution
//	type ErrorHandler[C Context] func(ctx C, err error)
//
//	// Middleware wraps handlers for cross-cutting concerns
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
// # Middleware Usage
//
//	r := router.New[*reqcontext.Context](router.WithContextFactory(reqcontext.New))
//	r.Use(middleware.RequestID[*reqcontext.Context]())
//	r.Use(middleware.Logging[*reqcontext.Context]())
//
//	r.Get("/health/live", health.Liveness[*reqcontext.Context])
//
// This package is typically used with core/router and core/response for
// complete HTTP handling functionality.
package handler
