package session

import "errors"

// ErrNoActiveRequest is reserved for future use by callers that want to
// assert a Respond/SendStatus call happens within a Request's lifetime.
var ErrNoActiveRequest = errors.New("session: no active request")
