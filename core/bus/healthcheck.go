package bus

import "context"

// Healthcheck adapts p for use with core/health.Readiness, which expects a
// bare func(context.Context) error.
func Healthcheck(p *Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		return p.Healthcheck(ctx)
	}
}
