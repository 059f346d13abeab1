package checker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	consts "github.com/khanhnv2901/shredder/internal/shared/constants"
	errs "github.com/khanhnv2901/shredder/internal/shared/errors"
)

// NormalizeTarget turns a raw target into an absolute URL.
// This handles various input formats:
//   - example.com            -> https://example.com
//   - example.com:8443/login -> https://example.com:8443/login
//   - localhost:8080         -> https://localhost:8080
//   - http://example.com     -> unchanged
//   - ftp://example.com      -> unchanged
//
// Targets that already carry a scheme are returned as-is (after trimming),
// whatever the scheme is. Reachability is not checked.
func NormalizeTarget(raw string) string {
	target := strings.TrimSpace(raw)
	if hasScheme(target) {
		return target
	}
	return consts.DefaultScheme + "://" + target
}

// hasScheme reports whether target starts with a real URL scheme. Go's parser
// reads "example.com:8080" and "localhost:8080" as scheme + opaque data, so a
// dotted scheme or a bare port after the colon does not count.
func hasScheme(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme == "" {
		return false
	}
	if strings.Contains(parsed.Scheme, ".") {
		return false
	}
	if parsed.Opaque != "" && isPort(portPrefix(parsed.Opaque)) {
		return false
	}
	return true
}

func portPrefix(opaque string) string {
	if i := strings.IndexAny(opaque, "/?#"); i >= 0 {
		return opaque[:i]
	}
	return opaque
}

func isPort(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseTargets reads newline separated targets from r and returns them
// normalized, in first-seen order, with duplicates collapsed. Blank lines
// are skipped. Lines have no length limit; an unusable target only fails its
// own probe.
func ParseTargets(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})
	targets := make([]string, 0)

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read targets: %w", err)
		}
		if line = strings.TrimSpace(line); line != "" {
			target := NormalizeTarget(line)
			if _, dup := seen[target]; !dup {
				seen[target] = struct{}{}
				targets = append(targets, target)
			}
		}
		if err != nil {
			break
		}
	}
	return targets, nil
}

// LoadTargets resolves the -t argument. When raw names an existing regular
// file its lines are parsed as targets; otherwise raw itself is the single
// target.
func LoadTargets(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errs.ErrMissingTarget
	}

	info, err := os.Stat(raw)
	if err != nil || !info.Mode().IsRegular() {
		return []string{NormalizeTarget(raw)}, nil
	}

	f, err := os.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("open target file %s: %w", raw, err)
	}
	defer f.Close()

	targets, err := ParseTargets(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", raw, err)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrNoTargets, raw)
	}
	return targets, nil
}
