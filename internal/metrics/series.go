// Package metrics defines the series published by the exporter and the sinks that hold them.
package metrics

import (
	"maps"
	"slices"
	"strings"
)

// LabelFeature is the label carrying the feature name on per-feature series.
const LabelFeature = "feature"

// Series identifies one published gauge family.
type Series string

const (
	ServerTotal     Series = "olicense_server_total_licenses"
	ServerInUse     Series = "olicense_server_licenses_in_use"
	ServerAvailable Series = "olicense_server_licenses_available"
	ServerDenials   Series = "olicense_server_denials_total"
	ServerHeartbeat Series = "olicense_server_heartbeat_timestamp"

	FeatureTotal    Series = "olicense_feature_total_licenses"
	FeatureInUse    Series = "olicense_feature_licenses_in_use"
	FeatureBorrowed Series = "olicense_feature_licenses_borrowed"
	FeatureDenials  Series = "olicense_feature_denials_total"

	ScrapeSuccess  Series = "olicense_exporter_scrape_success"
	ScrapeDuration Series = "olicense_exporter_scrape_duration_seconds"
)

// Labels is a set of label name/value pairs identifying one series within a family.
type Labels map[string]string

// Definition describes how a Series is exposed.
type Definition struct {
	Series Series
	Help   string
	Labels []string
}

// Definitions lists every series the exporter publishes.
func Definitions() []Definition {
	featureLabels := []string{LabelFeature}

	return []Definition{
		{Series: ServerTotal, Help: "Total license seats configured on the server."},
		{Series: ServerInUse, Help: "Total license seats currently consumed on the server."},
		{Series: ServerAvailable, Help: "Number of license seats reported as available."},
		{Series: ServerDenials, Help: "Total denials reported by the server status output."},
		{Series: ServerHeartbeat, Help: "Heartbeat timestamp reported by the server (seconds since epoch)."},
		{Series: FeatureTotal, Help: "Configured license capacity for each feature.", Labels: featureLabels},
		{Series: FeatureInUse, Help: "Currently consumed licenses per feature.", Labels: featureLabels},
		{Series: FeatureBorrowed, Help: "Number of borrowed/offline licenses per feature.", Labels: featureLabels},
		{Series: FeatureDenials, Help: "Total denials recorded per feature in the status output.", Labels: featureLabels},
		{Series: ScrapeSuccess, Help: "1 if the last scrape succeeded, 0 otherwise."},
		{Series: ScrapeDuration, Help: "Duration of the last scrape in seconds."},
	}
}

// FeatureSeries lists the four series recorded for every feature.
func FeatureSeries() []Series {
	return []Series{FeatureTotal, FeatureInUse, FeatureBorrowed, FeatureDenials}
}

// FeatureLabels returns the label set identifying the series of a single feature.
func FeatureLabels(name string) Labels {
	return Labels{LabelFeature: name}
}

// String renders labels in Prometheus exposition order, e.g. {feature="A"}.
func (l Labels) String() string {
	if len(l) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(l))
	for _, k := range slices.Sorted(maps.Keys(l)) {
		pairs = append(pairs, k+`="`+l[k]+`"`)
	}

	return "{" + strings.Join(pairs, ",") + "}"
}
