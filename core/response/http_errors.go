package response

import "net/http"

// HTTPError represents a structured error response that implements the error interface.
type HTTPError struct {
	Status  int            `json:"-"`                 // HTTP status code (not in JSON)
	Code    string         `json:"code"`              // Machine-readable error code
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Optional context
}

// NewHTTPError creates an Error with a custom message and internal server
// error status.
func NewHTTPError(message string) HTTPError {
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_server_error",
		Message: message,
	}
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
// This allows HTTPError to work with the router's statusCode interface.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy of the error with an error cause.
func (e HTTPError) WithError(err error) HTTPError {
	if e.Details == nil {
		e.Details = map[string]any{"cause": err.Error()}
	} else {
		e.Details["cause"] = err.Error()
	}
	return e
}

func httpError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

// Predefined errors for the statuses this module's HTTP surface can emit:
// the upgrade endpoint's admission rejections, the body-limit and rate-limit
// middleware, the health probes, and the router's own dispatch failures.
var (
	ErrBadRequest            = httpError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized          = httpError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden             = httpError(http.StatusForbidden, "forbidden")
	ErrNotFound              = httpError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed      = httpError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrRequestTimeout        = httpError(http.StatusRequestTimeout, "request_timeout")
	ErrConflict              = httpError(http.StatusConflict, "conflict")
	ErrRequestEntityTooLarge = httpError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrUnprocessableEntity   = httpError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrUpgradeRequired       = httpError(http.StatusUpgradeRequired, "upgrade_required")
	ErrTooManyRequests       = httpError(http.StatusTooManyRequests, "too_many_requests")
	ErrInternalServerError   = httpError(http.StatusInternalServerError, "internal_server_error")
	ErrNotImplemented        = httpError(http.StatusNotImplemented, "not_implemented")
	ErrBadGateway            = httpError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable    = httpError(http.StatusServiceUnavailable, "service_unavailable")
	ErrGatewayTimeout        = httpError(http.StatusGatewayTimeout, "gateway_timeout")
)

// httpErrorsByStatus maps status codes to their HTTPError values so
// convertToHTTPError can promote a bare statusCode-carrying error. Statuses
// outside this set fall back to ErrInternalServerError.
var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusUnauthorized:          ErrUnauthorized,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusRequestTimeout:        ErrRequestTimeout,
	http.StatusConflict:              ErrConflict,
	http.StatusRequestEntityTooLarge: ErrRequestEntityTooLarge,
	http.StatusUnprocessableEntity:   ErrUnprocessableEntity,
	http.StatusUpgradeRequired:       ErrUpgradeRequired,
	http.StatusTooManyRequests:       ErrTooManyRequests,
	http.StatusInternalServerError:   ErrInternalServerError,
	http.StatusNotImplemented:        ErrNotImplemented,
	http.StatusBadGateway:            ErrBadGateway,
	http.StatusServiceUnavailable:    ErrServiceUnavailable,
	http.StatusGatewayTimeout:        ErrGatewayTimeout,
}
