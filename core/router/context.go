package router

import (
	"net/http"
	"sync"
	"time"
)

// Context is the default request context used when no custom factory is
// configured via WithContextFactory. It delegates all context.Context
// methods to the request's context and layers request-scoped values set by
// middleware on top.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string

	mu     sync.RWMutex
	values map[any]any
}

// newContext creates a Context for one request. It matches the factory
// shape mux expects: func(http.ResponseWriter, *http.Request, map[string]string) C.
func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{w: w, r: r, params: params}
}

// Deadline delegates to the request's context.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done delegates to the request's context.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to the request's context.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value first checks request-scoped values set via SetValue, then falls
// back to the underlying request's context.
func (c *Context) Value(key any) any {
	c.mu.RLock()
	if c.values != nil {
		if v, ok := c.values[key]; ok {
			c.mu.RUnlock()
			return v
		}
	}
	c.mu.RUnlock()
	return c.r.Context().Value(key)
}

// SetValue stores val under key for the lifetime of this request.
func (c *Context) SetValue(key, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}

// Request returns the *http.Request associated with the context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the http.ResponseWriter associated with the context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the URL parameter by key.
func (c *Context) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}
