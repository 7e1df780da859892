// Package printer renders status snapshots, exported samples and report checks as human-readable text.
package printer

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/olicense/olicense-exporter/internal/cmd/output"
	"github.com/olicense/olicense-exporter/internal/status"
)

var _ output.Printer[status.ServerStatus] = (*StatusPrinter)(nil)

const unknownValue = "unknown"

type StatusPrinter struct {
	headerFunc output.WriteFunc[status.ServerStatus]
	footerFunc output.WriteFunc[status.ServerStatus]
}

func NewStatusPrinter() *StatusPrinter {
	return &StatusPrinter{}
}

func (p *StatusPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *StatusPrinter) SetHeader(fn output.WriteFunc[status.ServerStatus]) {
	p.headerFunc = fn
}

// Item prints the server-wide fields followed by a table of features.
func (p *StatusPrinter) Item(w io.Writer, s status.ServerStatus) error {
	_, _ = fmt.Fprintln(w, "Server:")
	_, _ = fmt.Fprintf(w, "  Total licenses:  %s\n", optionalFloat(s.Total))
	_, _ = fmt.Fprintf(w, "  In use:          %s\n", optionalFloat(s.InUse))
	_, _ = fmt.Fprintf(w, "  Available:       %s\n", optionalFloat(s.Available))
	_, _ = fmt.Fprintf(w, "  Denials:         %s\n", optionalFloat(s.Denials))
	_, _ = fmt.Fprintf(w, "  Heartbeat:       %s\n", heartbeat(s.HeartbeatTS))

	names := s.FeatureNames()
	_, _ = fmt.Fprintf(w, "Features (%d):\n", len(names))
	if len(names) == 0 {
		_, _ = fmt.Fprintln(w, "  (No features reported)")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  NAME\tTOTAL\tIN USE\tBORROWED\tDENIALS")
	for _, name := range names {
		f := s.Features[name]
		_, _ = fmt.Fprintf(
			tw,
			"  %s\t%s\t%s\t%s\t%s\n",
			name,
			formatFloat(f.Total),
			formatFloat(f.InUse),
			formatFloat(f.Borrowed),
			formatFloat(f.Denials),
		)
	}

	return tw.Flush()
}

func (p *StatusPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *StatusPrinter) SetFooter(fn output.WriteFunc[status.ServerStatus]) {
	p.footerFunc = fn
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return unknownValue
	}
	return formatFloat(*v)
}

func heartbeat(ts *float64) string {
	if ts == nil {
		return unknownValue
	}
	return fmt.Sprintf("%s (%s)", time.Unix(int64(*ts), 0).UTC().Format(time.RFC3339), formatFloat(*ts))
}
