package printer

import (
	"fmt"
	"io"

	"github.com/olicense/olicense-exporter/internal/cmd/output"
)

var _ output.Printer[CheckResult] = (*CheckPrinter)(nil)

// CheckResult is the outcome of checking one status report.
type CheckResult struct {
	Source     string   `json:"source"     yaml:"source"`
	Grammar    string   `json:"grammar"    yaml:"grammar"`
	Violations []string `json:"violations" yaml:"violations"`
	Features   []string `json:"features"   yaml:"features"`
}

type CheckPrinter struct {
	headerFunc output.WriteFunc[CheckResult]
	footerFunc output.WriteFunc[CheckResult]
}

func NewCheckPrinter() *CheckPrinter {
	return &CheckPrinter{}
}

func (p *CheckPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *CheckPrinter) SetHeader(fn output.WriteFunc[CheckResult]) {
	p.headerFunc = fn
}

func (p *CheckPrinter) Item(w io.Writer, r CheckResult) error {
	_, _ = fmt.Fprintf(w, "Report '%s' parsed as %s with %d feature(s)\n", r.Source, r.Grammar, len(r.Features))

	if len(r.Violations) == 0 {
		if r.Grammar == "json" {
			_, _ = fmt.Fprintln(w, "  ✓ Conforms to the report schema")
		}
		return nil
	}

	_, _ = fmt.Fprintf(w, "  ⚠️ %d schema violation(s):\n", len(r.Violations))
	for _, v := range r.Violations {
		_, _ = fmt.Fprintf(w, "    - %s\n", v)
	}

	return nil
}

func (p *CheckPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *CheckPrinter) SetFooter(fn output.WriteFunc[CheckResult]) {
	p.footerFunc = fn
}
