package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/olicense/olicense-exporter/internal/cmd/output"
)

type OutputFormat string

type OutputFormats []OutputFormat

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatText OutputFormat = "text"
)

// jsonIndent and yamlIndent control the indentation of structured output.
const (
	jsonIndent = 2
	yamlIndent = 2
)

func AllowedOutputFormats() OutputFormats {
	formats := []OutputFormat{
		FormatJSON,
		FormatText,
		FormatYAML,
	}

	slices.Sort(formats)

	return formats
}

// String implements fmt.Stringer for a collection of output formats,
// converting them to a comma separated string.
func (f *OutputFormats) String() string {
	out := make([]string, len(*f))
	for i, format := range *f {
		out[i] = format.String()
	}
	return strings.Join(out, ", ")
}

// String implements fmt.Stringer and flag.Value.
func (f *OutputFormat) String() string {
	return strings.ToLower(string(*f))
}

// Set implements flag.Value, accepting any of AllowedOutputFormats case-insensitively.
func (f *OutputFormat) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	allowed := AllowedOutputFormats()

	if slices.Contains(allowed, OutputFormat(v)) {
		*f = OutputFormat(v)
		return nil
	}

	return fmt.Errorf("invalid format '%s', must be one of %v", v, allowed.String())
}

// Type implements flag.Value.
func (f *OutputFormat) Type() string {
	return "format"
}

// NewHandler returns the output handler writing format to w.
// The printer is only used for text output.
func NewHandler[T any](format OutputFormat, w io.Writer, printer output.Printer[T]) (output.Handler[T], error) {
	switch format {
	case FormatJSON:
		return output.NewJSONHandler[T](w, jsonIndent), nil
	case FormatYAML:
		return output.NewYAMLHandler[T](w, yamlIndent), nil
	case FormatText:
		if printer == nil {
			return nil, fmt.Errorf("text output requires a printer")
		}
		return output.NewTextHandler[T](w, printer), nil
	default:
		return nil, fmt.Errorf("unsupported output format '%s'", format)
	}
}
