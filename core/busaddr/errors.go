package busaddr

import "errors"

var (
	// ErrInvalidAddress is returned when a string does not parse as an Address.
	ErrInvalidAddress = errors.New("busaddr: invalid address")
	// ErrEmptyDomain is returned when an address string carries no domain segment.
	ErrEmptyDomain = errors.New("busaddr: empty domain")
)
