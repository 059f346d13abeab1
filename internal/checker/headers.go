package checker

import (
	"net/http"
	"strings"
)

// HeaderSet is the ordered list of response headers a probe looks for. The
// order is significant: presence vectors and report columns follow it.
type HeaderSet []string

// securityHeaders lists the headers whose presence signals a defensive
// configuration. Values are never inspected.
var securityHeaders = []string{
	"X-XSS-Protection",
	"X-Frame-Options",
	"Content-Security-Policy",
	"X-Content-Type-Options",
	"Referrer-Policy",
	"Feature-Policy",
}

// DefaultHeaderSet returns a fresh copy of the security headers, so callers
// can never mutate the package-level list.
func DefaultHeaderSet() HeaderSet {
	return append(HeaderSet(nil), securityHeaders...)
}

// Presence reports, for each header in the set, whether headers contains it.
// Lookup is case-insensitive and a header with an empty value still counts.
func (hs HeaderSet) Presence(headers http.Header) []bool {
	presence := make([]bool, len(hs))
	for i, name := range hs {
		presence[i] = hasHeader(headers, name)
	}
	return presence
}

func hasHeader(headers http.Header, name string) bool {
	if _, ok := headers[http.CanonicalHeaderKey(name)]; ok {
		return true
	}
	// Keys set directly on the map skip canonicalization.
	for key := range headers {
		if strings.EqualFold(key, name) {
			return true
		}
	}
	return false
}

// Len returns the number of headers in the set.
func (hs HeaderSet) Len() int {
	return len(hs)
}
