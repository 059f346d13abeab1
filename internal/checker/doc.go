// Package checker implements the probing pipeline behind shredder.
//
// Architecture overview:
//
//   - NormalizeTarget, ParseTargets and LoadTargets turn the -t argument (a
//     single target or a file of targets) into a de-duplicated list of
//     absolute URLs, assuming https when no scheme is given.
//   - ParseCookies builds the read-only CookieJar attached to every request.
//   - HeaderSet holds the ordered security headers; Presence evaluates a
//     response against it.
//   - HeaderProber implements Prober: one GET per target through the client
//     returned by NewHTTPClient, with certificate validation off by default.
//   - Runner fans targets out to a fixed pool of workers, optionally rate
//     limited, and stops waiting at the run deadline. Every target yields
//     exactly one ProbeResult; unfinished ones become failures.
//
// A failed probe never affects its siblings. Failures travel as values
// (ProbeResult.Err) rather than panics or aborted runs, and the report layer
// drops them.
package checker
