package checker

import (
	"net/http"
	"sort"
	"strings"
)

// CookieJar maps cookie names to values. It is built once per run and only
// read afterwards, so probes share it without locking.
type CookieJar map[string]string

// ParseCookies converts "name1=value1; name2=value2" into a CookieJar.
// Segments without '=' or with an empty name are skipped; an empty input
// yields an empty jar.
func ParseCookies(raw string) CookieJar {
	jar := make(CookieJar)
	for _, segment := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		jar[name] = strings.TrimSpace(value)
	}
	return jar
}

// Names returns the cookie names in sorted order.
func (j CookieJar) Names() []string {
	names := make([]string, 0, len(j))
	for name := range j {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply sets the Cookie header of req to the jar's contents. Values are sent
// as given; http.Request.AddCookie would strip quotes, spaces and backslashes.
func (j CookieJar) Apply(req *http.Request) {
	if len(j) == 0 {
		return
	}
	req.Header.Set("Cookie", j.String())
}

// String renders the jar as a Cookie header value.
func (j CookieJar) String() string {
	parts := make([]string, 0, len(j))
	for _, name := range j.Names() {
		parts = append(parts, name+"="+j[name])
	}
	return strings.Join(parts, "; ")
}
