// Package constants centralizes defaults shared across the CLI and the checker.
//
// File permissions, probe and run timeouts, the concurrency ceiling and the
// default report path live here so cmd/ and internal/ agree on them without
// importing each other.
package constants
