// Package clientip extracts real client IP addresses from HTTP requests.
//
// The gateway sits behind a reverse proxy in most deployments, so the
// address a WebSocket upgrade request arrives from is the proxy's, not the
// browser's. This package resolves the original client address for rate
// limiting and access logging.
//
// # Header Priority
//
// Headers are checked in this order, first valid IP wins:
//
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry, the original client)
//  4. X-Real-IP (nginx and other proxies)
//  5. RemoteAddr (direct connection)
//
// # Validation
//
// Every candidate is parsed with net.ParseIP and normalized via
// net.IP.String; malformed entries are skipped, and the unspecified
// address (0.0.0.0, ::) is rejected. IPv6 addresses, including
// IPv4-mapped ones, are handled in all headers. If nothing valid is
// found, the raw RemoteAddr is returned so callers always get a string.
//
//	ip := clientip.GetIP(r)
//	result, err := limiter.Allow(r.Context(), ip)
//
// When deploying behind a proxy, ensure it sets the matching header
// (nginx: proxy_set_header X-Real-IP $remote_addr).
package clientip
