package method

import (
	"context"
	"fmt"

	"github.com/evergreen-ils/osrf-go/core/message"
	"github.com/evergreen-ils/osrf-go/core/session"
)

// paramCountKind discriminates the shapes a ParamCount can take.
type paramCountKind int

const (
	countExact paramCountKind = iota
	countAtLeast
	countRange
	countAny
)

// ParamCount describes how many parameters a method accepts.
type ParamCount struct {
	kind     paramCountKind
	min, max int
}

// Exact requires precisely n parameters.
func Exact(n int) ParamCount { return ParamCount{kind: countExact, min: n} }

// AtLeast requires n or more parameters.
func AtLeast(n int) ParamCount { return ParamCount{kind: countAtLeast, min: n} }

// Range requires between min and max parameters, inclusive.
func Range(min, max int) ParamCount { return ParamCount{kind: countRange, min: min, max: max} }

// Any accepts any number of parameters, including zero.
func Any() ParamCount { return ParamCount{kind: countAny} }

// Matches reports whether n satisfies the arity described by p.
func (p ParamCount) Matches(n int) bool {
	switch p.kind {
	case countExact:
		return n == p.min
	case countAtLeast:
		return n >= p.min
	case countRange:
		return n >= p.min && n <= p.max
	case countAny:
		return true
	default:
		return false
	}
}

// String renders a human-readable description of p, used in BadRequest
// status text when a call's arity does not match.
func (p ParamCount) String() string {
	switch p.kind {
	case countExact:
		return fmt.Sprintf("exactly %d parameter(s)", p.min)
	case countAtLeast:
		return fmt.Sprintf("at least %d parameter(s)", p.min)
	case countRange:
		return fmt.Sprintf("between %d and %d parameter(s)", p.min, p.max)
	case countAny:
		return "any number of parameters"
	default:
		return "unknown arity"
	}
}

// HandlerFunc implements one method's behavior. It streams zero or more
// results by calling s.Respond, and a non-nil error is reported back to the
// caller as a Status with StatusInternalServerError.
type HandlerFunc func(ctx context.Context, s *session.Session, req *message.Message) error

// Descriptor registers one callable method.
type Descriptor struct {
	// Name is the fully qualified method name, e.g. "opensrf.settings.host_config.get".
	Name string
	// Params describes the accepted argument count.
	Params ParamCount
	// Handler implements the method.
	Handler HandlerFunc
	// LogProtect marks the method's parameters as sensitive; they are
	// redacted from request logs rather than printed verbatim.
	LogProtect bool
	// Atomic marks a method whose Respond calls should accumulate into a
	// single buffered Result, flushed as one array when the conversation
	// completes, rather than being sent as individual Result messages.
	Atomic bool
}
