package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultConcurrency caps how many probes are in flight at once.
	DefaultConcurrency = 5
	// DefaultProbeTimeout bounds a single request/response cycle.
	DefaultProbeTimeout = 3 * time.Second
	// DefaultRunDeadline bounds how long the dispatcher waits for all probes.
	// It is independent of DefaultProbeTimeout.
	DefaultRunDeadline = 10 * time.Second
	// DefaultOutfile is where the CSV report lands when no path is given.
	DefaultOutfile = "shredder.csv"
	// DefaultScheme is prepended to targets that carry no scheme.
	DefaultScheme = "https"
)

const (
	// BodyDrainLimitBytes caps how much of a response body is read before closing.
	BodyDrainLimitBytes = 64 << 10
	// MaxIdleConns keeps the shared transport from hoarding sockets across many hosts.
	MaxIdleConns = 100
)
