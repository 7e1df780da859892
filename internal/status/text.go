package status

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/olicense/olicense-exporter/internal/coerce"
)

// fragment applies the information recognized on a single line to a snapshot.
type fragment func(*ServerStatus)

// lineMatcher recognizes one kind of report line.
// A nil fragment with a nil error means the line is not of this kind.
type lineMatcher struct {
	name  string
	match func(line string) (fragment, error)
}

var (
	heartbeatRE = regexp.MustCompile(`(?i)heartbeat\s*[:=]\s*(?P<value>.+)$`)

	featureTableRE = regexp.MustCompile(
		`(?i)^(?P<name>[\p{L}\p{N}_.-]+)\s+(?P<total>\d+)\s+(?P<in_use>\d+)\s+(?P<borrowed>\d+)\s+(?P<denials>\d+)`,
	)

	keyValueRE = regexp.MustCompile(`^(?P<key>[\p{L}\p{N}_\s/-]+?)\s*[:=]\s*(?P<value>.+)$`)

	featureKeyValueRE = regexp.MustCompile(
		`(?i)^Feature\s+(?P<name>[\p{L}\p{N}_.-]+)\s*:\s*` +
			`total\s*=\s*(?P<total>\d+)\s+` +
			`in_use\s*=\s*(?P<in_use>\d+)` +
			`(?:\s+borrowed\s*=\s*(?P<borrowed>\d+))?` +
			`(?:\s+denials\s*=\s*(?P<denials>\d+))?`,
	)
)

// textServerKeys maps the lower-cased keys of "key: value" lines onto server-wide fields.
var textServerKeys = map[string]serverField{
	"total licenses":     fieldTotal,
	"total licence":      fieldTotal,
	"licenses total":     fieldTotal,
	"in use":             fieldInUse,
	"licenses in use":    fieldInUse,
	"available":          fieldAvailable,
	"licenses available": fieldAvailable,
	"denials":            fieldDenials,
	"license denials":    fieldDenials,
}

// lineMatchers is applied in priority order; the first matcher producing a fragment wins.
var lineMatchers = []lineMatcher{
	{name: "heartbeat", match: matchHeartbeat},
	{name: "feature-table", match: matchFeatureTable},
	{name: "server-field", match: matchServerField},
	{name: "feature-key-value", match: matchFeatureKeyValue},
}

// isLineBreak reports whether r ends a report line. Besides '\n' this covers bare '\r',
// vertical tab, form feed, the file/group/record separators and the Unicode line breaks.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func parseText(raw string) (*ServerStatus, error) {
	st := NewServerStatus()

	for _, line := range strings.FieldsFunc(raw, isLineBreak) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		frag, err := matchLine(line)
		if err != nil {
			return nil, parseFailure("text", err)
		}
		if frag != nil {
			frag(st)
		}
	}

	return st, nil
}

// matchLine returns the fragment of the highest priority matcher recognizing line, or nil.
func matchLine(line string) (fragment, error) {
	for _, m := range lineMatchers {
		frag, err := m.match(line)
		if err != nil {
			return nil, err
		}
		if frag != nil {
			return frag, nil
		}
	}

	return nil, nil
}

func matchHeartbeat(line string) (fragment, error) {
	groups := namedGroups(heartbeatRE, line)
	if groups == nil {
		return nil, nil
	}

	var ts *float64
	if v, ok := coerce.Timestamp(groups["value"]); ok {
		ts = float(v)
	}

	return func(s *ServerStatus) { s.HeartbeatTS = ts }, nil
}

func matchFeatureTable(line string) (fragment, error) {
	groups := namedGroups(featureTableRE, line)
	if groups == nil {
		return nil, nil
	}

	return featureFragment(groups), nil
}

func matchServerField(line string) (fragment, error) {
	groups := namedGroups(keyValueRE, line)
	if groups == nil {
		return nil, nil
	}

	key := strings.ToLower(strings.TrimSpace(groups["key"]))
	field, ok := textServerKeys[key]
	if !ok {
		return nil, nil
	}

	v, err := coerce.Float(strings.TrimSpace(groups["value"]), key, 0)
	if err != nil {
		return nil, err
	}

	return func(s *ServerStatus) { field.set(s, float(v)) }, nil
}

func matchFeatureKeyValue(line string) (fragment, error) {
	groups := namedGroups(featureKeyValueRE, line)
	if groups == nil {
		return nil, nil
	}

	return featureFragment(groups), nil
}

// featureFragment builds a FeatureStatus from the integer capture groups of a feature line.
// Optional groups that did not participate in the match count as zero.
func featureFragment(groups map[string]string) fragment {
	name := groups["name"]
	fs := FeatureStatus{
		Total:    atof(groups["total"]),
		InUse:    atof(groups["in_use"]),
		Borrowed: atof(groups["borrowed"]),
		Denials:  atof(groups["denials"]),
	}

	return func(s *ServerStatus) { s.Features[name] = fs }
}

// namedGroups returns the named capture groups of the first match of re in line, or nil.
func namedGroups(re *regexp.Regexp, line string) map[string]string {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	groups := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}

	return groups
}

// atof parses a \d+ capture; the empty string of an absent optional group yields zero.
func atof(s string) float64 {
	if s == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
