package printer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olicense/olicense-exporter/internal/cmd/output"
	"github.com/olicense/olicense-exporter/internal/metrics"
)

var _ output.Printer[metrics.Sample] = (*SamplePrinter)(nil)

// SamplePrinter prints samples in the Prometheus text exposition style, e.g. name{feature="A"} 3.
type SamplePrinter struct {
	headerFunc output.WriteFunc[metrics.Sample]
	footerFunc output.WriteFunc[metrics.Sample]
}

func NewSamplePrinter() *SamplePrinter {
	return &SamplePrinter{
		footerFunc: DefaultSampleFooter(),
	}
}

func DefaultSampleFooter() output.WriteFunc[metrics.Sample] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintf(w, "# %d series\n", count)
	}
}

func (p *SamplePrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *SamplePrinter) SetHeader(fn output.WriteFunc[metrics.Sample]) {
	p.headerFunc = fn
}

func (p *SamplePrinter) Item(w io.Writer, s metrics.Sample) error {
	_, err := fmt.Fprintf(w, "%s%s %s\n", s.Series, s.Labels, strconv.FormatFloat(s.Value, 'g', -1, 64))
	return err
}

func (p *SamplePrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *SamplePrinter) SetFooter(fn output.WriteFunc[metrics.Sample]) {
	p.footerFunc = fn
}
