package cmd

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"
)

// setupTestAppContext installs a fresh AppContext with default config and
// restores the previous one when the test ends.
func setupTestAppContext(t *testing.T) *AppContext {
	t.Helper()

	original := globalAppContext
	appCtx := &AppContext{
		Logger: nil,
		Config: newTestConfig(t),
	}
	globalAppContext = appCtx
	t.Cleanup(func() {
		globalAppContext = original
	})
	return appCtx
}

// newTestConfig returns defaults that keep tests fast and write into a temp dir.
func newTestConfig(t *testing.T) *CLIConfig {
	t.Helper()
	cfg := newCLIConfig()
	cfg.Scan.Outfile = filepath.Join(t.TempDir(), "shredder.csv")
	cfg.Scan.Timeout = 2 * time.Second
	cfg.Scan.Deadline = 5 * time.Second
	return cfg
}

// disableColor turns off ANSI escapes for output assertions.
func disableColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})
}

// isolateViper points viper at an empty HOME and wipes its state afterwards.
func isolateViper(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)
}

// closedURL returns a loopback URL nothing is listening on.
func closedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return "http://" + addr
}
