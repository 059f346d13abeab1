package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	consts "github.com/khanhnv2901/shredder/internal/shared/constants"
	errs "github.com/khanhnv2901/shredder/internal/shared/errors"
)

// ClientConfig describes the HTTP client shared by every probe.
type ClientConfig struct {
	Timeout   time.Duration // Per-request timeout
	VerifyTLS bool          // Validate certificate chains (off by default)
	ProxyURL  string        // http, https, socks5 or socks5h proxy; empty uses the environment
}

// NewHTTPClient builds the probe client. Certificate validation stays
// disabled unless VerifyTLS is set, since misconfigured and self-signed
// endpoints are exactly what the scanner is pointed at.
func NewHTTPClient(cfg ClientConfig) (*http.Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = consts.DefaultProbeTimeout
	}

	dialer := &net.Dialer{
		Timeout:   cfg.Timeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.VerifyTLS, //nolint:gosec // scanning hosts with broken TLS is the point
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          consts.MaxIdleConns,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   cfg.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if cfg.ProxyURL != "" {
		if err := configureProxy(transport, dialer, cfg.ProxyURL); err != nil {
			return nil, err
		}
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}, nil
}

func configureProxy(transport *http.Transport, forward *net.Dialer, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse proxy url: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		d, err := proxy.FromURL(u, forward)
		if err != nil {
			return fmt.Errorf("create socks dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := d.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return d.Dial(network, addr)
			}
		}
	default:
		return fmt.Errorf("%w: %q", errs.ErrUnsupportedProxy, u.Scheme)
	}
	return nil
}
