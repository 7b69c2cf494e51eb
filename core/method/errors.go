package method

import "errors"

var (
	// ErrEmptyMethodName is returned when registering a Descriptor with no Name.
	ErrEmptyMethodName = errors.New("method: empty method name")
	// ErrNilHandler is returned when registering a Descriptor with a nil Handler.
	ErrNilHandler = errors.New("method: nil handler")
	// ErrDuplicateMethod is returned when a method name is registered twice.
	ErrDuplicateMethod = errors.New("method: duplicate method")
	// ErrMethodNotFound is returned by a dispatcher when no Descriptor matches
	// the requested method name.
	ErrMethodNotFound = errors.New("method: not found")
	// ErrArityMismatch is returned when a Request's parameter count does not
	// satisfy the Descriptor's ParamCount.
	ErrArityMismatch = errors.New("method: arity mismatch")
	// ErrRegistryFrozen is returned by Register once Freeze has been called.
	ErrRegistryFrozen = errors.New("method: registry is frozen")
)
