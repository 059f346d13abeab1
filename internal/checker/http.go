package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"

	consts "github.com/khanhnv2901/shredder/internal/shared/constants"
)

// HeaderProber issues one GET per target and records which headers of its
// HeaderSet the response carries.
type HeaderProber struct {
	Client    *http.Client
	Headers   HeaderSet
	Cookies   CookieJar
	UserAgent string
}

// Probe performs a single GET against target. Transport, TLS and timeout
// errors come back as a failed result; nothing is retried.
func (p *HeaderProber) Probe(ctx context.Context, target string) ProbeResult {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Failure(target, fmt.Errorf("create request: %w", err))
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	p.Cookies.Apply(req)

	resp, err := client.Do(req)
	if err != nil {
		return Failure(target, err)
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused; the body itself is irrelevant.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, consts.BodyDrainLimitBytes))

	result := Success(target, p.Headers.Presence(resp.Header))
	result.StatusCode = resp.StatusCode
	return result
}
