package clientip

import (
	"net"
	"net/http"
	"strings"
)

// headerPriority lists the proxy headers checked, in priority order, before
// falling back to the connection's RemoteAddr.
var headerPriority = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the real client IP address for r, checking CF-Connecting-IP,
// DO-Connecting-IP, X-Forwarded-For (leftmost entry), and X-Real-IP in that
// order before falling back to RemoteAddr. It never panics: a header that
// fails to parse is skipped, and if no valid IP can be determined the raw
// RemoteAddr is returned unparsed.
func GetIP(r *http.Request) string {
	for _, header := range headerPriority {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		candidate := value
		if header == "X-Forwarded-For" {
			candidate, _, _ = strings.Cut(value, ",")
		}

		if ip := normalize(candidate); ip != "" {
			return ip
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if ip := normalize(host); ip != "" {
			return ip
		}
	}

	if ip := normalize(r.RemoteAddr); ip != "" {
		return ip
	}

	return r.RemoteAddr
}

// normalize validates and canonicalizes a candidate IP string, rejecting
// the empty/unspecified address and returning "" for anything unparseable.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	ip := net.ParseIP(s)
	if ip == nil || ip.IsUnspecified() {
		return ""
	}

	return ip.String()
}
