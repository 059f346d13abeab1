package checker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	errs "github.com/khanhnv2901/shredder/internal/shared/errors"
)

// ProbeResult is the outcome of probing one target. A result is either a
// success carrying a presence vector aligned with the HeaderSet, or a failure
// carrying the error that stopped the probe.
type ProbeResult struct {
	Target     string
	Presence   []bool
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Success builds a successful result.
func Success(target string, presence []bool) ProbeResult {
	return ProbeResult{Target: target, Presence: presence}
}

// Failure builds a failed result. Failures carry no presence data.
func Failure(target string, err error) ProbeResult {
	return ProbeResult{Target: target, Err: err}
}

// OK reports whether the probe completed.
func (r ProbeResult) OK() bool {
	return r.Err == nil
}

// Prober is the interface that all probe implementations must satisfy
type Prober interface {
	// Probe checks a single target. It must not panic and reports every
	// failure through the returned result.
	Probe(ctx context.Context, target string) ProbeResult
}

// ObserveFunc is called once per collected probe result, from the goroutine
// running Run. It is never called after Run returns.
type ObserveFunc func(result ProbeResult)

// Runner orchestrates probes with a fixed concurrency ceiling and an overall
// run deadline.
type Runner struct {
	Concurrency int           // Maximum number of probes in flight
	Deadline    time.Duration // How long Run waits for all probes; zero waits for ctx only
	RateLimit   int           // Requests per second (global); zero disables limiting
	Observe     ObserveFunc   // Optional per-result callback
}

// Run probes every target exactly once and returns one result per target.
// Targets still unfinished when the deadline (or ctx) expires are reported as
// failures wrapping ErrProbeAbandoned. Result order is unspecified.
func (r *Runner) Run(ctx context.Context, targets []string, prober Prober) []ProbeResult {
	targets = uniqueTargets(targets)
	if len(targets) == 0 {
		return nil
	}

	runCtx, cancel := r.runContext(ctx)
	defer cancel()

	var limiter *rate.Limiter
	if r.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.RateLimit), r.RateLimit)
	}

	workers := max(1, min(r.Concurrency, len(targets)))

	jobs := make(chan string)
	// Sized so workers never block on send once collection has stopped.
	results := make(chan ProbeResult, len(targets))

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for target := range jobs {
				results <- r.probe(runCtx, limiter, prober, target)
			}
		}()
	}

	go func() {
		defer close(results)
		wg.Wait()
	}()

	go func() {
		defer close(jobs)
		for _, target := range targets {
			select {
			case <-runCtx.Done():
				return
			case jobs <- target:
			}
		}
	}()

	collected := make(map[string]ProbeResult, len(targets))
collect:
	for {
		select {
		case res, ok := <-results:
			if !ok {
				break collect
			}
			r.collect(collected, res)
		case <-runCtx.Done():
			r.drainReady(results, collected)
			break collect
		}
	}

	out := make([]ProbeResult, 0, len(targets))
	for _, target := range targets {
		res, ok := collected[target]
		if !ok {
			res = abandoned(runCtx, target)
		}
		out = append(out, res)
	}
	return out
}

// drainReady moves results that already arrived into collected without
// waiting for the rest.
func (r *Runner) drainReady(results <-chan ProbeResult, collected map[string]ProbeResult) {
	for {
		select {
		case res, ok := <-results:
			if !ok {
				return
			}
			r.collect(collected, res)
		default:
			return
		}
	}
}

func (r *Runner) collect(collected map[string]ProbeResult, res ProbeResult) {
	collected[res.Target] = res
	if r.Observe != nil {
		r.Observe(res)
	}
}

func uniqueTargets(targets []string) []string {
	seen := make(map[string]struct{}, len(targets))
	unique := make([]string, 0, len(targets))
	for _, target := range targets {
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		unique = append(unique, target)
	}
	return unique
}

func (r *Runner) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Deadline > 0 {
		return context.WithTimeout(ctx, r.Deadline)
	}
	return context.WithCancel(ctx)
}

func (r *Runner) probe(ctx context.Context, limiter *rate.Limiter, prober Prober, target string) (res ProbeResult) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			res = Failure(target, fmt.Errorf("probe panicked: %v", rec))
		}
		res.Target = target
		res.Duration = time.Since(start)
	}()

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return abandoned(ctx, target)
			}
			return Failure(target, fmt.Errorf("rate limiter: %w", err))
		}
	}

	res = prober.Probe(ctx, target)
	// A probe cut off by the run deadline or cancellation is abandoned, however
	// quickly its failure reached the collector.
	if !res.OK() && ctx.Err() != nil && isContextError(res.Err) {
		res.Err = fmt.Errorf("%w: %v", errs.ErrProbeAbandoned, res.Err)
	}
	return res
}

func abandoned(ctx context.Context, target string) ProbeResult {
	return Failure(target, fmt.Errorf("%w: %v", errs.ErrProbeAbandoned, context.Cause(ctx)))
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
