// Package network resolves the client address for requests that arrive
// through the tenant sites' reverse proxy.
package network

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the originating client address for r. Forwarding
// headers are only trusted when they carry a parseable IP; the value
// ends up stored with contact leads, so arbitrary header text must not
// pass through. Falls back to RemoteAddr with the port stripped.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, hop := range strings.Split(xff, ",") {
			hop = strings.TrimSpace(hop)
			if net.ParseIP(hop) != nil {
				return hop
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
