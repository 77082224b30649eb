package batch

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// Report writes a human-readable summary of a run followed by one line per
// failed row.
func Report(w io.Writer, s Summary, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Run:\t%s\n", s.RunID)
	fmt.Fprintf(tw, "Output:\t%s (%s)\n", s.OutputDir, s.Format)
	fmt.Fprintf(tw, "Rows:\t%d\n", s.Total)
	fmt.Fprintf(tw, "Succeeded:\t%d\n", s.Succeeded)
	fmt.Fprintf(tw, "Failed:\t%d\n", s.Failed)
	fmt.Fprintf(tw, "Written:\t%s\n", humanize.Bytes(uint64(s.Bytes)))
	if !s.Started.IsZero() && !s.Finished.IsZero() {
		fmt.Fprintf(tw, "Took:\t%s\n", s.Finished.Sub(s.Started).Round(1e6))
	}
	if s.Canceled {
		fmt.Fprintf(tw, "Status:\tcanceled after %s\n", humanize.Comma(int64(s.Total)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	first := true
	for _, r := range results {
		if r.Success {
			continue
		}
		if first {
			if _, err := fmt.Fprintln(w, "\nFailures:"); err != nil {
				return err
			}
			first = false
		}
		if _, err := fmt.Fprintf(w, "  row %d (%s) [%s]: %s\n", r.Index, r.Type, r.Kind, r.Message); err != nil {
			return err
		}
	}
	return nil
}
