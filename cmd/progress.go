package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// progressPrinter draws a progress bar on out while probes finish and prints
// one final "[name] Progress: n/N" line when stopped.
type progressPrinter struct {
	total    int
	name     string
	out      io.Writer
	bar      *progressbar.ProgressBar
	mu       sync.Mutex
	ok       int
	fail     int
	duration float64
	stopOnce sync.Once
}

func newProgressPrinter(total int, name string, out io.Writer) *progressPrinter {
	if total <= 0 {
		total = 1
	}
	p := &progressPrinter{
		total: total,
		name:  name,
		out:   out,
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(!color.NoColor),
		progressbar.OptionSetDescription(p.describe(0, 0, 0)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return p
}

func (p *progressPrinter) Start() {
	_ = p.bar.RenderBlank()
}

func (p *progressPrinter) Increment(success bool, duration float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if success {
		p.ok++
	} else {
		p.fail++
	}
	p.duration += duration
	if p.ok+p.fail > p.total {
		p.total = p.ok + p.fail
		p.bar.ChangeMax(p.total)
	}

	p.bar.Describe(p.describe(p.ok, p.fail, p.duration))
	_ = p.bar.Add(1)
}

func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		_ = p.bar.Clear()
		completed := p.ok + p.fail
		percent := float64(completed) / float64(p.total) * 100
		fmt.Fprintf(p.out, "[%s] Progress: %d/%d (%.1f%%) OK:%d Fail:%d Avg:%.2fs\n",
			p.name, completed, p.total, percent, p.ok, p.fail, average(p.duration, completed))
	})
}

func (p *progressPrinter) describe(ok, fail int, duration float64) string {
	label := p.name
	if !color.NoColor {
		label = "[cyan]" + label + "[reset]"
	}
	return fmt.Sprintf("%s OK:%d Fail:%d Avg:%.2fs", label, ok, fail, average(duration, ok+fail))
}

func average(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
