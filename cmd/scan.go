package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/khanhnv2901/shredder/internal/checker"
	"github.com/khanhnv2901/shredder/internal/report"
	errs "github.com/khanhnv2901/shredder/internal/shared/errors"
)

// scanSummary describes a finished run.
type scanSummary struct {
	Total     int
	OK        int
	Failed    int
	Abandoned int
	Outfile   string
	Report    *report.Report
}

// runScan is the whole pipeline: load targets, probe them, write the CSV and
// print the console summary to out. Only input and configuration problems are
// returned as errors; unreachable targets just drop out of the report.
func runScan(ctx context.Context, cfg *CLIConfig, logger *zap.SugaredLogger, out io.Writer) (*scanSummary, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	targets, err := checker.LoadTargets(cfg.Scan.Target)
	if err != nil {
		return nil, err
	}

	client, err := checker.NewHTTPClient(checker.ClientConfig{
		Timeout:   cfg.Scan.Timeout,
		VerifyTLS: cfg.Scan.VerifyTLS,
		ProxyURL:  cfg.Scan.Proxy,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidConfig, err)
	}

	headers := checker.DefaultHeaderSet()
	cookies := checker.ParseCookies(cfg.Scan.Cookies)

	prober := &checker.HeaderProber{
		Client:    client,
		Headers:   headers,
		Cookies:   cookies,
		UserAgent: cfg.Scan.UserAgent,
	}

	var progress *progressPrinter
	if cfg.Progress {
		progress = newProgressPrinter(len(targets), "Probing", os.Stderr)
		progress.Start()
	}

	runner := &checker.Runner{
		Concurrency: cfg.Scan.Concurrency,
		Deadline:    cfg.Scan.Deadline,
		RateLimit:   cfg.Scan.RateLimit,
		Observe: func(res checker.ProbeResult) {
			if res.OK() {
				logger.Debugw("probe complete", "target", res.Target, "status", res.StatusCode, "duration", res.Duration)
			} else {
				logger.Debugw("probe failed", "target", res.Target, "error", res.Err, "duration", res.Duration)
			}
			if progress != nil {
				progress.Increment(res.OK(), res.Duration.Seconds())
			}
		},
	}

	logger.Infow("starting scan",
		"targets", len(targets),
		"cookies", len(cookies),
		"concurrency", runner.Concurrency,
		"timeout", cfg.Scan.Timeout,
		"deadline", runner.Deadline,
		"verify_tls", cfg.Scan.VerifyTLS,
	)

	results := runner.Run(ctx, targets, prober)

	if progress != nil {
		progress.Stop()
	}

	summary := &scanSummary{Total: len(results), Outfile: cfg.Scan.Outfile}
	for _, res := range results {
		switch {
		case res.OK():
			summary.OK++
		case errors.Is(res.Err, errs.ErrProbeAbandoned):
			summary.Abandoned++
			summary.Failed++
			logger.Debugw("probe abandoned", "target", res.Target, "error", res.Err)
		default:
			summary.Failed++
		}
	}

	summary.Report = report.Build(headers, results)
	if err := summary.Report.WriteFile(cfg.Scan.Outfile); err != nil {
		return nil, err
	}

	logger.Infow("scan complete", "ok", summary.OK, "failed", summary.Failed, "abandoned", summary.Abandoned, "outfile", summary.Outfile)

	if !cfg.Quiet {
		printReport(out, summary.Report)
	}
	printSummary(out, summary)
	return summary, nil
}
