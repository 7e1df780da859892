package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olicense/olicense-exporter/internal/metrics"
)

func TestSamplePrinter_Item(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sample metrics.Sample
		want   string
	}{
		{
			name:   "unlabelled",
			sample: metrics.Sample{Series: metrics.ServerTotal, Value: 10},
			want:   "olicense_server_total_licenses 10\n",
		},
		{
			name:   "feature",
			sample: metrics.Sample{Series: metrics.FeatureInUse, Labels: metrics.FeatureLabels("CAD"), Value: 2},
			want:   `olicense_feature_licenses_in_use{feature="CAD"} 2` + "\n",
		},
		{
			name:   "fractional",
			sample: metrics.Sample{Series: metrics.ScrapeDuration, Value: 0.25},
			want:   "olicense_exporter_scrape_duration_seconds 0.25\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, NewSamplePrinter().Item(&buf, tc.sample))
			require.Equal(t, tc.want, buf.String())
		})
	}
}

func TestSamplePrinter_DefaultFooter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewSamplePrinter()
	p.Header(&buf, 3)
	p.Footer(&buf, 3)
	require.Equal(t, "# 3 series\n", buf.String())

	buf.Reset()
	p.SetFooter(nil)
	p.Footer(&buf, 3)
	require.Empty(t, buf.String())
}
