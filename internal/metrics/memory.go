package metrics

import (
	"cmp"
	"maps"
	"slices"
	"sync"
)

// Sample is a single series value held by a MemorySink.
type Sample struct {
	Series Series  `json:"series" yaml:"series"`
	Labels Labels  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  float64 `json:"value" yaml:"value"`
}

type sampleKey struct {
	series Series
	labels string
}

// MemorySink keeps series values in memory.
// It backs the one-shot scrape command and is safe for concurrent use.
type MemorySink struct {
	mu      sync.RWMutex
	samples map[sampleKey]Sample
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{samples: map[sampleKey]Sample{}}
}

// Upsert sets the value of the series identified by labels.
func (m *MemorySink) Upsert(series Series, labels Labels, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples[sampleKey{series, labels.String()}] = Sample{
		Series: series,
		Labels: maps.Clone(labels),
		Value:  value,
	}
}

// Remove deletes the series identified by labels, reporting whether it existed.
func (m *MemorySink) Remove(series Series, labels Labels) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := sampleKey{series, labels.String()}
	if _, ok := m.samples[key]; !ok {
		return false
	}
	delete(m.samples, key)

	return true
}

// Value returns the value of the series identified by labels.
func (m *MemorySink) Value(series Series, labels Labels) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.samples[sampleKey{series, labels.String()}]
	return s.Value, ok
}

// Samples returns a copy of every held series, sorted by series name then labels.
func (m *MemorySink) Samples() []Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := slices.Collect(maps.Values(m.samples))
	slices.SortFunc(out, func(a, b Sample) int {
		return cmp.Or(
			cmp.Compare(a.Series, b.Series),
			cmp.Compare(a.Labels.String(), b.Labels.String()),
		)
	})

	return out
}
