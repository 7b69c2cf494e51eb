package handler

import (
	"context"
	"net/http"
)

// Context is the contract every request context satisfies. The router
// ships a default implementation; this module plugs in core/reqcontext.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}
