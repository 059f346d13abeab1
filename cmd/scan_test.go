package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	errs "github.com/khanhnv2901/shredder/internal/shared/errors"
)

func newHeaderServer(t *testing.T, headers map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeTargets(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write targets: %v", err)
	}
	return path
}

func TestRunScanWritesReport(t *testing.T) {
	disableColor(t)

	framed := newHeaderServer(t, map[string]string{"X-Frame-Options": "DENY"})
	hardened := newHeaderServer(t, map[string]string{
		"X-XSS-Protection":        "1; mode=block",
		"X-Frame-Options":         "SAMEORIGIN",
		"Content-Security-Policy": "default-src 'self'",
		"X-Content-Type-Options":  "nosniff",
		"Referrer-Policy":         "no-referrer",
		"Feature-Policy":          "camera 'none'",
	})
	down := closedURL(t)

	cfg := newTestConfig(t)
	cfg.Scan.Target = writeTargets(t, framed.URL, "", down, hardened.URL)

	var out bytes.Buffer
	summary, err := runScan(context.Background(), cfg, nil, &out)
	if err != nil {
		t.Fatalf("runScan: %v", err)
	}

	if summary.Total != 3 || summary.OK != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	data, err := os.ReadFile(cfg.Scan.Outfile)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), data)
	}
	if lines[0] != "URL,X-XSS-Protection,X-Frame-Options,Content-Security-Policy,X-Content-Type-Options,Referrer-Policy,Feature-Policy" {
		t.Fatalf("unexpected header line %q", lines[0])
	}
	if strings.Contains(string(data), down) {
		t.Fatalf("expected unreachable target to be left out, got:\n%s", data)
	}
	for _, line := range lines[1:] {
		switch {
		case strings.HasPrefix(line, framed.URL+","):
			if line != framed.URL+",No,Yes,No,No,No,No" {
				t.Errorf("unexpected row %q", line)
			}
		case strings.HasPrefix(line, hardened.URL+","):
			if line != hardened.URL+",Yes,Yes,Yes,Yes,Yes,Yes" {
				t.Errorf("unexpected row %q", line)
			}
		default:
			t.Errorf("unexpected row %q", line)
		}
	}

	console := out.String()
	if !strings.Contains(console, "[+] Results written to "+cfg.Scan.Outfile) {
		t.Errorf("expected completion line, got %q", console)
	}
	if !strings.Contains(console, "Probed 3 target(s): 2 ok, 1 failed") {
		t.Errorf("expected summary line, got %q", console)
	}
	if !strings.Contains(console, "X-Frame-Options") {
		t.Errorf("expected result table on console, got %q", console)
	}
}

func TestRunScanSingleTargetWithCookies(t *testing.T) {
	disableColor(t)

	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Header().Set("Referrer-Policy", "no-referrer")
	}))
	defer server.Close()

	cfg := newTestConfig(t)
	cfg.Scan.Target = server.URL
	cfg.Scan.Cookies = "session=abc;theme = dark"
	cfg.Quiet = true

	var out bytes.Buffer
	if _, err := runScan(context.Background(), cfg, nil, &out); err != nil {
		t.Fatalf("runScan: %v", err)
	}

	if gotCookie != "session=abc; theme=dark" {
		t.Errorf("expected cookies to be forwarded, got %q", gotCookie)
	}
	if strings.Contains(out.String(), "Referrer-Policy") {
		t.Errorf("expected --quiet to suppress the table, got %q", out.String())
	}
	if !strings.Contains(out.String(), "[+] Results written to") {
		t.Errorf("expected completion line, got %q", out.String())
	}
}

func TestRunScanAllUnreachable(t *testing.T) {
	disableColor(t)

	cfg := newTestConfig(t)
	cfg.Scan.Target = closedURL(t)

	var out bytes.Buffer
	summary, err := runScan(context.Background(), cfg, nil, &out)
	if err != nil {
		t.Fatalf("runScan: %v", err)
	}
	if summary.OK != 0 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	data, err := os.ReadFile(cfg.Scan.Outfile)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if strings.Count(string(data), "\n") != 1 {
		t.Fatalf("expected header line only, got %q", data)
	}
}

func TestRunScanDeadlineAbandonsProbes(t *testing.T) {
	disableColor(t)

	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	fast := newHeaderServer(t, map[string]string{"X-Content-Type-Options": "nosniff"})

	cfg := newTestConfig(t)
	cfg.Scan.Target = writeTargets(t, slow.URL, fast.URL)
	cfg.Scan.Timeout = 5 * time.Second
	cfg.Scan.Deadline = 300 * time.Millisecond

	var out bytes.Buffer
	start := time.Now()
	summary, err := runScan(context.Background(), cfg, nil, &out)
	if err != nil {
		t.Fatalf("runScan: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("expected run to end at its deadline, took %s", elapsed)
	}

	if summary.OK != 1 || summary.Abandoned != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Report.Rows) != 1 || summary.Report.Rows[0].Target != fast.URL {
		t.Fatalf("expected only the fast target in the report, got %+v", summary.Report.Rows)
	}
	if !strings.Contains(out.String(), "1 abandoned at deadline") {
		t.Errorf("expected abandoned count in summary, got %q", out.String())
	}
}

func TestRunScanInputErrors(t *testing.T) {
	t.Run("missing target", func(t *testing.T) {
		cfg := newTestConfig(t)
		_, err := runScan(context.Background(), cfg, nil, &bytes.Buffer{})
		if !errors.Is(err, errs.ErrMissingTarget) {
			t.Fatalf("expected ErrMissingTarget, got %v", err)
		}
		if _, statErr := os.Stat(cfg.Scan.Outfile); !os.IsNotExist(statErr) {
			t.Fatal("expected no report to be written")
		}
	})

	t.Run("empty targets file", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Scan.Target = writeTargets(t, "", "  ")
		_, err := runScan(context.Background(), cfg, nil, &bytes.Buffer{})
		if !errors.Is(err, errs.ErrNoTargets) {
			t.Fatalf("expected ErrNoTargets, got %v", err)
		}
	})

	t.Run("unsupported proxy", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.Scan.Target = "example.com"
		cfg.Scan.Proxy = "gopher://127.0.0.1:70"
		_, err := runScan(context.Background(), cfg, nil, &bytes.Buffer{})
		if !errors.Is(err, errs.ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
