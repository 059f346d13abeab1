package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/khanhnv2901/shredder/internal/report"
)

// printReport writes the report as an aligned table. Every Yes/No cell is
// wrapped in the same color escape overhead, so tabwriter still lines up.
func printReport(w io.Writer, rep *report.Report) {
	if rep == nil || len(rep.Rows) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(rep.Columns(), "\t"))
	for _, row := range rep.Rows {
		cells := make([]string, 0, len(rep.Headers)+1)
		cells = append(cells, row.Target)
		for i := range rep.Headers {
			present := i < len(row.Presence) && row.Presence[i]
			cells = append(cells, formatPresence(present, report.YesNo(present)))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func printSummary(w io.Writer, summary *scanSummary) {
	line := fmt.Sprintf("Probed %d target(s): %s ok, %s failed",
		summary.Total,
		colorSuccess(summary.OK),
		colorError(summary.Failed),
	)
	if summary.Abandoned > 0 {
		line += fmt.Sprintf(" (%s abandoned at deadline)", colorWarn(summary.Abandoned))
	}
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "%s Results written to %s\n", colorInfo("[+]"), summary.Outfile)
}
