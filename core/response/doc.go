// Package response provides the HTTP response helpers used by this module's
// HTTP surface: the health probes and the error rendering in front of the
// WebSocket upgrade endpoint.
//
// All helpers return a handler.Response closure executed by the router:
//
//	func live(ctx handler.Context) handler.Response {
//		return response.String("ALIVE")
//	}
//
// JSON and String render success bodies; Error propagates an error to the
// router's error handler, which converts it through the HTTPError taxonomy
// in this package:
//
//	return response.Error(response.ErrTooManyRequests.WithMessage("slow down"))
//
// ErrorHandler renders errors as plain text; JSONErrorHandler renders a
// structured JSON object carrying the error's code, message, and details.
package response
