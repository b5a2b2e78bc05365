// Package render writes a report as a cloc-style text table.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/contribstats/contribstats/internal/domain"
)

const (
	headerFormat = "%-20s %-15s %-10s %-10s %-10s %-10s %-10s %-15s\n"
	rowFormat    = "%-20s %-15d %-10d %-10d %-10d %-10d %-10d %-15d\n"
)

// Table writes the whole report to w, one section per developer, with an
// optional per-repository breakdown.
func Table(w io.Writer, report domain.Report, perRepo bool) {
	fmt.Fprintf(w, "Report window: %s .. %s\n",
		report.Window.Start.Format("2006-01-02 15:04:05 MST"),
		report.Window.End.Format("2006-01-02 15:04:05 MST"))

	for _, dev := range report.Developers {
		fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 100))
		fmt.Fprintf(w, "Developer: %s\n", dev.Developer)
		fmt.Fprintf(w, "%s\n", strings.Repeat("=", 100))
		writeRows(w, dev.Rows, dev.Sum)

		if dev.Summary != nil {
			fmt.Fprintf(w, "\nCommits: %d (median %.0f lines changed, p90 %.0f)\n",
				dev.Summary.Commits, dev.Summary.MedianLineChanges, dev.Summary.P90LineChanges)
		}

		if perRepo && len(dev.Repos) > 0 {
			fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", 100))
			fmt.Fprintln(w, "By Repository:")
			for _, repo := range dev.Repos {
				fmt.Fprintf(w, "\nRepository: %s\n", repo.Repository)
				writeRows(w, repo.Rows, repo.Sum)
			}
		}
	}

	if len(report.Incomplete) > 0 {
		fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 100))
		fmt.Fprintln(w, "Incomplete pairs (data unavailable, not zero contributions):")
		for _, p := range report.Incomplete {
			fmt.Fprintf(w, "  %s on %s failed while %s: %s\n", p.Developer, p.Repository, p.Stage, p.Err)
		}
	}
}

func writeRows(w io.Writer, rows []domain.Row, sum domain.Row) {
	fmt.Fprintf(w, headerFormat, "Language", "Modifications", "Added", "Removed", "Renamed", "Line Adds", "Line Dels", "Line Changes")
	separator(w)
	for _, r := range rows {
		fmt.Fprintf(w, rowFormat, r.Category, r.Modifications, r.Added, r.Removed, r.Renamed, r.LineAdds, r.LineDels, r.LineChanges)
	}
	separator(w)
	fmt.Fprintf(w, rowFormat, "SUM", sum.Modifications, sum.Added, sum.Removed, sum.Renamed, sum.LineAdds, sum.LineDels, sum.LineChanges)
}

func separator(w io.Writer) {
	fmt.Fprintf(w, "%s %s %s %s %s %s %s %s\n",
		strings.Repeat("-", 20), strings.Repeat("-", 15), strings.Repeat("-", 10), strings.Repeat("-", 10),
		strings.Repeat("-", 10), strings.Repeat("-", 10), strings.Repeat("-", 10), strings.Repeat("-", 15))
}
