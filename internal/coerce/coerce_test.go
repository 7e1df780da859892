package coerce

import (
	"encoding/json"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olicense/olicense-exporter/internal/errors"
)

func TestFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		def   float64
		want  float64
	}{
		{name: "nil returns default", value: nil, def: 7, want: 7},
		{name: "float64", value: 42.5, want: 42.5},
		{name: "int", value: 12, want: 12},
		{name: "int64", value: int64(-3), want: -3},
		{name: "uint32", value: uint32(9), want: 9},
		{name: "json number", value: json.Number("17.25"), want: 17.25},
		{name: "bool true", value: true, want: 1},
		{name: "bool false", value: false, def: 5, want: 0},
		{name: "numeric string", value: "100", want: 100},
		{name: "padded string", value: "  3.5\t", want: 3.5},
		{name: "exponent string", value: "1e3", want: 1000},
		{name: "empty string returns default", value: "", def: 4, want: 4},
		{name: "blank string returns default", value: "   ", def: 2, want: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Float(tc.value, "field", tc.def)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFloat_InvalidValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     any
		wantValue string
	}{
		{name: "text", value: "lots", wantValue: "lots"},
		{name: "trimmed text", value: "  12 seats ", wantValue: "12 seats"},
		{name: "slice", value: []any{1}, wantValue: "[1]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Float(tc.value, "total_licenses", 0)
			require.Error(t, err)
			require.True(t, stdErrors.Is(err, errors.ErrNumericFormat))

			var nfe *errors.NumericFormatError
			require.True(t, stdErrors.As(err, &nfe))
			require.Equal(t, "total_licenses", nfe.Field)
			require.Equal(t, tc.wantValue, nfe.Value)
		})
	}
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	localNoon := time.Date(2023, 5, 6, 12, 30, 15, 0, time.Local)
	utcMidnight := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{name: "float epoch", value: 1700000000.5, want: 1700000000.5},
		{name: "int epoch", value: 1700000000, want: 1700000000},
		{name: "json number epoch", value: json.Number("1700000000"), want: 1700000000},
		{name: "space separated local", value: "2023-05-06 12:30:15", want: float64(localNoon.Unix())},
		{name: "T separated local", value: "2023-05-06T12:30:15", want: float64(localNoon.Unix())},
		{name: "trailing Z is UTC", value: "2023-01-01T00:00:00Z", want: float64(utcMidnight.Unix())},
		{name: "offset", value: "2023-01-01T02:00:00+02:00", want: float64(utcMidnight.Unix())},
		{name: "fractional UTC", value: "2023-01-01T00:00:00.5Z", want: float64(utcMidnight.Unix()) + 0.5},
		{name: "space separated Z is UTC", value: "2023-01-01 00:00:00Z", want: float64(utcMidnight.Unix())},
		{name: "space separated fractional Z", value: "2023-01-01 00:00:00.25Z", want: float64(utcMidnight.Unix()) + 0.25},
		{name: "space separated offset", value: "2023-01-01 02:00:00+02:00", want: float64(utcMidnight.Unix())},
		{name: "compact offset", value: "2023-01-01T02:00:00+0200", want: float64(utcMidnight.Unix())},
		{name: "space separated compact offset", value: "2022-12-31 19:00:00-0500", want: float64(utcMidnight.Unix())},
		{name: "bool true", value: true, want: 1},
		{name: "bool false", value: false, want: 0},
		{
			name:  "date only",
			value: "2023-05-06",
			want:  float64(time.Date(2023, 5, 6, 0, 0, 0, 0, time.Local).Unix()),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Timestamp(tc.value)
			require.True(t, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestTimestamp_Unknown(t *testing.T) {
	t.Parallel()

	for _, value := range []any{nil, "", "   ", "yesterday", "2023-13-45", "1700000000", "2023-01-01 00:00:00+2"} {
		_, ok := Timestamp(value)
		require.False(t, ok, "value %#v should not be a timestamp", value)
	}
}
