// Package coerce converts loosely-typed report values into floats and epoch timestamps.
package coerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olicense/olicense-exporter/internal/errors"
)

// localLayouts are tried, in order, for timestamps that carry no zone designator.
var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// isoLayouts form the generic ISO-8601 fallback.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Float coerces value into a float64.
// A nil value or an empty (after trimming) string returns def.
// Strings that do not parse as a floating-point literal return a *errors.NumericFormatError naming field.
func Float(value any, field string, def float64) (float64, error) {
	switch v := value.(type) {
	case nil:
		return def, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case json.Number:
		return parseFloat(string(v), field, def)
	case string:
		return parseFloat(v, field, def)
	default:
		return parseFloat(fmt.Sprint(v), field, def)
	}
}

func parseFloat(raw string, field string, def float64) (float64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return def, nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &errors.NumericFormatError{Field: field, Value: text}
	}

	return f, nil
}

// Timestamp coerces value into epoch seconds.
// The boolean result is false when the value is absent or cannot be interpreted as a timestamp;
// a heartbeat that cannot be parsed must never fail an otherwise successful scrape.
func Timestamp(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case string:
		return parseTimestamp(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		// Booleans count as 1 and 0, as they do for Float.
		f, err := Float(v, "heartbeat", 0)
		if err != nil {
			return 0, false
		}
		return f, true
	}
}

func parseTimestamp(raw string) (float64, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, false
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return epochSeconds(t), true
		}
	}

	// A trailing 'Z' is the UTC designator.
	if trimmed, ok := strings.CutSuffix(text, "Z"); ok {
		for _, layout := range localLayouts {
			if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
				return epochSeconds(t), true
			}
		}
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return epochSeconds(t), true
		}
	}

	return 0, false
}

func epochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
