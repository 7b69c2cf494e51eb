// Package busaddr implements the addressing scheme used to route envelopes
// across the message bus. An Address identifies either the router for a
// domain, a registered service, or a single connected client (a worker or a
// gateway session) within that domain.
package busaddr

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies the role an Address plays on the bus.
type Kind int

const (
	// Router addresses the per-domain router process.
	Router Kind = iota
	// Service addresses the shared listening address for a service's worker pool.
	Service
	// Client addresses a single connected participant (worker or gateway session).
	Client
)

func (k Kind) String() string {
	switch k {
	case Router:
		return "router"
	case Service:
		return "service"
	case Client:
		return "client"
	default:
		return "unknown"
	}
}

// Address is an opaque, routable endpoint on the message bus.
type Address struct {
	Kind     Kind
	Domain   string
	Service  string
	Instance string
}

// NewRouter returns the router address for domain.
func NewRouter(domain string) Address {
	return Address{Kind: Router, Domain: domain}
}

// NewService returns the shared address for service within domain.
func NewService(domain, service string) Address {
	return Address{Kind: Service, Domain: domain, Service: service}
}

// NewClient returns a freshly minted, unique client address for service
// within domain. Two calls never return equal addresses.
func NewClient(domain, service string) Address {
	return Address{Kind: Client, Domain: domain, Service: service, Instance: uuid.NewString()}
}

// IsZero reports whether a is the zero Address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String renders a in its canonical wire form.
func (a Address) String() string {
	switch a.Kind {
	case Router:
		return fmt.Sprintf("router:%s", a.Domain)
	case Service:
		return fmt.Sprintf("service:%s:%s", a.Domain, a.Service)
	case Client:
		return fmt.Sprintf("client:%s:%s:%s", a.Domain, a.Service, a.Instance)
	default:
		return ""
	}
}

// Parse decodes an Address previously produced by String.
func Parse(s string) (Address, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	domain := parts[1]
	if domain == "" {
		return Address{}, fmt.Errorf("%w: %q", ErrEmptyDomain, s)
	}

	switch parts[0] {
	case "router":
		if len(parts) != 2 {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		return Address{Kind: Router, Domain: domain}, nil
	case "service":
		if len(parts) != 3 {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		return Address{Kind: Service, Domain: domain, Service: parts[2]}, nil
	case "client":
		if len(parts) != 4 {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		return Address{Kind: Client, Domain: domain, Service: parts[2], Instance: parts[3]}, nil
	default:
		return Address{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidAddress, parts[0])
	}
}
