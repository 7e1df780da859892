package status

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
)

// ServerStatus is the normalized snapshot of one status report.
// Server-wide fields are nil when the report did not mention them; nil means unknown, not zero.
type ServerStatus struct {
	Total       *float64                 `json:"total,omitempty"        yaml:"total,omitempty"`
	InUse       *float64                 `json:"in_use,omitempty"       yaml:"in_use,omitempty"`
	Available   *float64                 `json:"available,omitempty"    yaml:"available,omitempty"`
	Denials     *float64                 `json:"denials,omitempty"      yaml:"denials,omitempty"`
	HeartbeatTS *float64                 `json:"heartbeat_ts,omitempty" yaml:"heartbeat_ts,omitempty"`
	Features    map[string]FeatureStatus `json:"features"               yaml:"features"`
}

// FeatureStatus is the utilization of a single licensed feature.
// Unlike server-wide fields, omitted feature values default to zero.
type FeatureStatus struct {
	Total    float64 `json:"total"    yaml:"total"`
	InUse    float64 `json:"in_use"   yaml:"in_use"`
	Borrowed float64 `json:"borrowed" yaml:"borrowed"`
	Denials  float64 `json:"denials"  yaml:"denials"`
}

// NewServerStatus returns an empty snapshot with every server field unknown.
func NewServerStatus() *ServerStatus {
	return &ServerStatus{Features: map[string]FeatureStatus{}}
}

// FeatureNames returns the snapshot's feature names in sorted order.
func (s *ServerStatus) FeatureNames() []string {
	return slices.Sorted(maps.Keys(s.Features))
}

func float(v float64) *float64 {
	return &v
}

// MarshalJSON drops non-finite server fields, which JSON cannot represent.
// A dropped field reads as unknown, the same as one the report never mentioned.
func (s ServerStatus) MarshalJSON() ([]byte, error) {
	type plain ServerStatus
	p := plain(s)
	p.Total = Finite(p.Total)
	p.InUse = Finite(p.InUse)
	p.Available = Finite(p.Available)
	p.Denials = Finite(p.Denials)
	p.HeartbeatTS = Finite(p.HeartbeatTS)

	return json.Marshal(p)
}

// MarshalJSON encodes non-finite feature values as null.
func (f FeatureStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Total    *float64 `json:"total"`
		InUse    *float64 `json:"in_use"`
		Borrowed *float64 `json:"borrowed"`
		Denials  *float64 `json:"denials"`
	}{
		Total:    Finite(&f.Total),
		InUse:    Finite(&f.InUse),
		Borrowed: Finite(&f.Borrowed),
		Denials:  Finite(&f.Denials),
	})
}

// Finite returns v, or nil when v is nil, NaN or infinite.
func Finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}

	return v
}
