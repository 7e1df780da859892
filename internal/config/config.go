package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/olicense/olicense-exporter/internal/perms"
)

const skeleton = `# olicense-exporter configuration

[source]
# Command printing the OLicense status report.
command = ["OLicenseServer", "-status"]
# Read a captured report instead of running a command.
# file = "/var/lib/olicense/status.txt"
timeout = "30s"

[exporter]
poll_interval = "15s"

[api]
addr = "0.0.0.0:9877"
metrics_path = "/metrics"
`

// Init creates a skeleton configuration file at path.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(skeleton), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load decodes and validates the configuration file at path.
// A missing file returns an error that matches both ErrConfigLoadFailed and fs.ErrNotExist.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file cannot be found, run: 'olicense-exporter init': %w", ErrConfigLoadFailed, err)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: unknown keys in config file (%s): %s", ErrConfigLoadFailed, path, strings.Join(keys, ", "))
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate existing config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	cfg.configFilePath = path

	return &cfg, nil
}

// Path returns the file this configuration was loaded from, if any.
func (c *Config) Path() string {
	return c.configFilePath
}

// Apply applies options in order and validates the result.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return err
		}
	}

	return c.validate()
}

// WithSourceCommand configures the status command, replacing any configured status file.
func WithSourceCommand(command []string) Option {
	return func(c *Config) error {
		if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
			return fmt.Errorf("status command cannot be empty")
		}
		c.source().Command = slices.Clone(command)
		c.source().File = ""
		return nil
	}
}

// WithSourceFile configures a captured status file, replacing any configured status command.
func WithSourceFile(path string) Option {
	return func(c *Config) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return fmt.Errorf("status file cannot be empty")
		}
		c.source().File = path
		c.source().Command = nil
		return nil
	}
}

// WithCommandTimeout configures how long a single status command execution may run.
func WithCommandTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return fmt.Errorf("command timeout must be positive, got %v", timeout)
		}
		d := Duration(timeout)
		c.source().Timeout = &d
		return nil
	}
}

// WithPollInterval configures the time between scrape cycles.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) error {
		if interval <= 0 {
			return fmt.Errorf("poll interval must be positive, got %v", interval)
		}
		d := Duration(interval)
		if c.Exporter == nil {
			c.Exporter = &ExporterSection{}
		}
		c.Exporter.PollInterval = &d
		return nil
	}
}

// WithAPIAddr configures the address the HTTP endpoint binds to.
func WithAPIAddr(addr string) Option {
	return func(c *Config) error {
		addr = strings.TrimSpace(addr)
		if err := validateAddr(addr); err != nil {
			return err
		}
		c.api().Addr = &addr
		return nil
	}
}

// SourceCommand returns the configured status command, or nil.
func (c *Config) SourceCommand() []string {
	if c.Source == nil {
		return nil
	}
	return slices.Clone(c.Source.Command)
}

// SourceFile returns the configured status file, or the empty string.
func (c *Config) SourceFile() string {
	if c.Source == nil {
		return ""
	}
	return c.Source.File
}

// CommandTimeout returns the status command timeout.
func (c *Config) CommandTimeout() time.Duration {
	if c.Source == nil {
		return DefaultCommandTimeout
	}
	return durationOr(c.Source.Timeout, DefaultCommandTimeout)
}

// PollInterval returns the time between scrape cycles.
func (c *Config) PollInterval() time.Duration {
	if c.Exporter == nil {
		return DefaultPollInterval
	}
	return durationOr(c.Exporter.PollInterval, DefaultPollInterval)
}

// APIAddr returns the address the HTTP endpoint binds to.
func (c *Config) APIAddr() string {
	if c.API == nil || c.API.Addr == nil {
		return DefaultAPIAddr
	}
	return *c.API.Addr
}

// MetricsPath returns the path serving the Prometheus exposition.
func (c *Config) MetricsPath() string {
	if c.API == nil || c.API.MetricsPath == nil {
		return DefaultMetricsPath
	}
	return *c.API.MetricsPath
}

// ShutdownTimeout returns the graceful shutdown timeout of the HTTP endpoint.
func (c *Config) ShutdownTimeout() time.Duration {
	if c.API == nil || c.API.Timeout == nil {
		return DefaultShutdownTimeout
	}
	return durationOr(c.API.Timeout.Shutdown, DefaultShutdownTimeout)
}

// CORS returns the CORS section, or nil when CORS is not configured.
func (c *Config) CORS() *CORSSection {
	if c.API == nil {
		return nil
	}
	return c.API.CORS
}

// Enabled reports whether CORS handling is switched on.
func (s *CORSSection) Enabled() bool {
	return s != nil && s.Enable != nil && *s.Enable
}

// MaxAgeOrDefault returns the preflight cache duration.
func (s *CORSSection) MaxAgeOrDefault() time.Duration {
	if s == nil {
		return DefaultCORSMaxAge
	}
	return durationOr(s.MaxAge, DefaultCORSMaxAge)
}

// AllowCredentials reports whether credentials are allowed on CORS requests.
func (s *CORSSection) AllowCredentials() bool {
	return s != nil && s.Credentials != nil && *s.Credentials
}

func (c *Config) source() *SourceSection {
	if c.Source == nil {
		c.Source = &SourceSection{}
	}
	return c.Source
}

func (c *Config) api() *APISection {
	if c.API == nil {
		c.API = &APISection{}
	}
	return c.API
}

// validate orchestrates validation of configuration structure.
func (c *Config) validate() error {
	var errs []error

	if c.Source != nil {
		if len(c.Source.Command) > 0 && c.Source.File != "" {
			errs = append(errs, fmt.Errorf("source: command and file are mutually exclusive"))
		}
		if len(c.Source.Command) > 0 && strings.TrimSpace(c.Source.Command[0]) == "" {
			errs = append(errs, NewErrInvalidValue("source.command", strings.Join(c.Source.Command, " ")))
		}
		if err := validatePositive("source.timeout", c.Source.Timeout); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Exporter != nil {
		if err := validatePositive("exporter.poll_interval", c.Exporter.PollInterval); err != nil {
			errs = append(errs, err)
		}
	}

	if c.API != nil {
		errs = append(errs, c.API.validate()...)
	}

	return errors.Join(errs...)
}

func (a *APISection) validate() []error {
	var errs []error

	if a.Addr != nil {
		if err := validateAddr(*a.Addr); err != nil {
			errs = append(errs, fmt.Errorf("api.addr: %w", err))
		}
	}

	if a.MetricsPath != nil {
		p := *a.MetricsPath
		switch {
		case !strings.HasPrefix(p, "/"):
			errs = append(errs, NewErrInvalidValue("api.metrics_path", p))
		case p == "/api" || strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/docs"):
			errs = append(errs, fmt.Errorf("%w: 'api.metrics_path' collides with the status API (value: '%s')", ErrInvalidValue, p))
		}
	}

	if a.Timeout != nil {
		if err := validatePositive("api.timeout.shutdown", a.Timeout.Shutdown); err != nil {
			errs = append(errs, err)
		}
	}

	if a.CORS != nil && a.CORS.MaxAge != nil && *a.CORS.MaxAge < 0 {
		errs = append(errs, NewErrInvalidValue("api.cors.max_age", a.CORS.MaxAge.String()))
	}

	return errs
}

func validatePositive(key string, d *Duration) error {
	if d != nil && *d <= 0 {
		return NewErrInvalidValue(key, d.String())
	}
	return nil
}

// validateAddr returns an error if the address is not a valid "host:port" string.
func validateAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}

	if port == "" {
		return fmt.Errorf("address missing port")
	}

	if n, err := strconv.Atoi(port); err == nil {
		if n < 0 || n > 65535 {
			return fmt.Errorf("port out of range: %d", n)
		}
		return nil
	}

	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}

	return nil
}
