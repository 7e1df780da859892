package config

import "time"

var _ Provider = (*DefaultLoader)(nil)

const (
	// DefaultPollInterval is the time the exporter waits between scrape cycles.
	DefaultPollInterval = 15 * time.Second

	// DefaultCommandTimeout bounds a single execution of the status command.
	DefaultCommandTimeout = 30 * time.Second

	// DefaultAPIAddr is the address the metrics endpoint binds to.
	DefaultAPIAddr = "0.0.0.0:9877"

	// DefaultMetricsPath is the path serving the Prometheus exposition.
	DefaultMetricsPath = "/metrics"

	// DefaultShutdownTimeout is how long the HTTP server waits for in-flight requests on shutdown.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultCORSMaxAge is how long browsers may cache preflight responses.
	DefaultCORSMaxAge = 5 * time.Minute
)

type Loader interface {
	Load(path string) (*Config, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type DefaultLoader struct{}

// Config represents the olicense-exporter.toml file structure.
// Every section and key is optional; accessors fall back to defaults for unset values.
//
// NOTE: if you add/remove fields you must review the associated accessors and validate().
type Config struct {
	Source   *SourceSection   `json:"source,omitempty"   toml:"source,omitempty"   yaml:"source,omitempty"`
	Exporter *ExporterSection `json:"exporter,omitempty" toml:"exporter,omitempty" yaml:"exporter,omitempty"`
	API      *APISection      `json:"api,omitempty"      toml:"api,omitempty"      yaml:"api,omitempty"`

	configFilePath string `toml:"-"`
}

// SourceSection configures where the raw status report comes from.
type SourceSection struct {
	// Command and arguments printing the status report.
	// e.g. ["/opt/olicense/bin/OLicenseServer", "-status"]
	// Maps to CLI flag --status-command
	Command []string `json:"command,omitempty" toml:"command,omitempty" yaml:"command,omitempty"`

	// File containing a captured status report, read instead of running a command.
	// Maps to CLI flag --status-file
	File string `json:"file,omitempty" toml:"file,omitempty" yaml:"file,omitempty"`

	// Timeout for a single execution of Command.
	// Maps to CLI flag --command-timeout
	Timeout *Duration `json:"timeout,omitempty" toml:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ExporterSection configures the poll loop.
type ExporterSection struct {
	// Time to wait after each scrape cycle.
	// Maps to CLI flag --poll-interval
	PollInterval *Duration `json:"pollInterval,omitempty" toml:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
}

// APISection configures the HTTP endpoint serving metrics and the status API.
type APISection struct {
	// Address to bind (e.g. "0.0.0.0:9877")
	// Maps to CLI flags --listen-address and --listen-port
	Addr *string `json:"addr,omitempty" toml:"addr,omitempty" yaml:"addr,omitempty"`

	// Path serving the Prometheus exposition.
	MetricsPath *string `json:"metricsPath,omitempty" toml:"metrics_path,omitempty" yaml:"metrics_path,omitempty"`

	// Nested timeout configuration.
	Timeout *APITimeoutSection `json:"timeout,omitempty" toml:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Nested CORS configuration for the status API.
	CORS *CORSSection `json:"cors,omitempty" toml:"cors,omitempty" yaml:"cors,omitempty"`
}

// APITimeoutSection contains timeout settings for the HTTP server.
type APITimeoutSection struct {
	// Shutdown timeout for graceful HTTP server shutdown.
	Shutdown *Duration `json:"shutdown,omitempty" toml:"shutdown,omitempty" yaml:"shutdown,omitempty"`
}

// CORSSection contains Cross-Origin Resource Sharing (CORS) configuration.
type CORSSection struct {
	Enable        *bool     `json:"enable,omitempty"           toml:"enable,omitempty"            yaml:"enable,omitempty"`
	Origins       []string  `json:"allowOrigins,omitempty"     toml:"allow_origins,omitempty"     yaml:"allow_origins,omitempty"`
	Methods       []string  `json:"allowMethods,omitempty"     toml:"allow_methods,omitempty"     yaml:"allow_methods,omitempty"`
	Headers       []string  `json:"allowHeaders,omitempty"     toml:"allow_headers,omitempty"     yaml:"allow_headers,omitempty"`
	ExposeHeaders []string  `json:"exposeHeaders,omitempty"    toml:"expose_headers,omitempty"    yaml:"expose_headers,omitempty"`
	Credentials   *bool     `json:"allowCredentials,omitempty" toml:"allow_credentials,omitempty" yaml:"allow_credentials,omitempty"`
	MaxAge        *Duration `json:"maxAge,omitempty"           toml:"max_age,omitempty"           yaml:"max_age,omitempty"`
}

// Option defines a functional option applied on top of a loaded Config, typically from CLI flags.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Config) error
