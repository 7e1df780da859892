package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusSink stores series as client_golang gauges registered on a caller supplied registry.
// The registry may be gathered concurrently with writes.
// NewPrometheusSink should be used to create instances of PrometheusSink.
type PrometheusSink struct {
	gauges map[Series]*prometheus.GaugeVec
}

// NewPrometheusSink registers one GaugeVec per series definition on registry.
func NewPrometheusSink(registry *prometheus.Registry) (*PrometheusSink, error) {
	if registry == nil {
		return nil, fmt.Errorf("prometheus registry cannot be nil")
	}

	factory := promauto.With(registry)
	gauges := make(map[Series]*prometheus.GaugeVec)

	for _, def := range Definitions() {
		gauges[def.Series] = factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: string(def.Series),
				Help: def.Help,
			},
			def.Labels,
		)
	}

	return &PrometheusSink{gauges: gauges}, nil
}

// Upsert sets the value of the series identified by labels, creating it when absent.
// Unknown series are ignored.
func (p *PrometheusSink) Upsert(series Series, labels Labels, value float64) {
	vec, ok := p.gauges[series]
	if !ok {
		return
	}

	vec.With(prometheus.Labels(labels)).Set(value)
}

// Remove deletes the series identified by labels, reporting whether it existed.
func (p *PrometheusSink) Remove(series Series, labels Labels) bool {
	vec, ok := p.gauges[series]
	if !ok {
		return false
	}

	return vec.Delete(prometheus.Labels(labels))
}
