package status

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olicense/olicense-exporter/internal/coerce"
	"github.com/olicense/olicense-exporter/internal/errors"
)

const featuresKey = "features"

// serverField identifies a server-wide ServerStatus field.
type serverField int

const (
	fieldTotal serverField = iota
	fieldInUse
	fieldAvailable
	fieldDenials
	fieldHeartbeat
)

// jsonFieldAliases maps lower-cased JSON keys onto ServerStatus fields.
var jsonFieldAliases = map[string]serverField{
	"total_licenses": fieldTotal,
	"total":          fieldTotal,
	"capacity":       fieldTotal,
	"in_use":         fieldInUse,
	"used":           fieldInUse,
	"available":      fieldAvailable,
	"free":           fieldAvailable,
	"denials":        fieldDenials,
	"heartbeat":      fieldHeartbeat,
}

// set stores v into the field of s identified by f.
func (f serverField) set(s *ServerStatus, v *float64) {
	switch f {
	case fieldTotal:
		s.Total = v
	case fieldInUse:
		s.InUse = v
	case fieldAvailable:
		s.Available = v
	case fieldDenials:
		s.Denials = v
	case fieldHeartbeat:
		s.HeartbeatTS = v
	}
}

// parseJSON decodes a syntactically valid JSON document.
// Top-level keys are visited in document order so that later aliases overwrite earlier ones.
func parseJSON(raw string) (*ServerStatus, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, parseFailure("JSON", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.ErrMalformedJSONObject
	}

	st := NewServerStatus()
	var features any

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, parseFailure("JSON", err)
		}
		key, _ := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, parseFailure("JSON", err)
		}

		normalized := strings.ToLower(key)
		if normalized == featuresKey {
			features = value
			continue
		}

		field, ok := jsonFieldAliases[normalized]
		if !ok {
			continue
		}

		if field == fieldHeartbeat {
			var ts *float64
			if v, ok := coerce.Timestamp(value); ok {
				ts = float(v)
			}
			field.set(st, ts)
			continue
		}

		v, err := coerce.Float(value, key, 0)
		if err != nil {
			return nil, parseFailure("JSON", err)
		}
		field.set(st, float(v))
	}

	entries, ok := features.([]any)
	if !ok {
		return st, nil
	}

	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		name, ok := featureName(obj)
		if !ok {
			continue
		}

		feature, err := jsonFeature(obj)
		if err != nil {
			return nil, parseFailure("JSON", err)
		}
		st.Features[name] = feature
	}

	return st, nil
}

// featureName picks the feature name from the "name" key, falling back to "feature".
func featureName(obj map[string]any) (string, bool) {
	for _, key := range []string{"name", "feature"} {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case json.Number:
			if f, err := v.Float64(); err == nil && f != 0 {
				return v.String(), true
			}
		case bool:
			if v {
				return "True", true
			}
		}
	}

	return "", false
}

func jsonFeature(obj map[string]any) (FeatureStatus, error) {
	var (
		fs  FeatureStatus
		err error
	)

	fields := []struct {
		key string
		dst *float64
	}{
		{"total", &fs.Total},
		{"in_use", &fs.InUse},
		{"borrowed", &fs.Borrowed},
		{"denials", &fs.Denials},
	}

	for _, f := range fields {
		*f.dst, err = coerce.Float(obj[f.key], fmt.Sprintf("feature.%s", f.key), 0)
		if err != nil {
			return FeatureStatus{}, err
		}
	}

	return fs, nil
}
