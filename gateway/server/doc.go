// Package server hosts the WebSocket gateway's HTTP listener: it accepts
// upgrades on /ws, admits them through a bounded worker pool before ever
// constructing a gateway/session.Session, and coordinates graceful shutdown
// across every session it has spawned.
//
// The listener itself is the adapted core/server.Server, the same
// http.Server wrapper used throughout this module. Admission control layers
// on top of it as an ordinary middleware stack (request id, client IP,
// body limit, rate limit, logging) composed in front of the upgrade
// handler, exactly as core/router callers elsewhere in this module compose
// their own middleware chains.
package server
