package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "vtree.yaml"

// Defaults.
const (
	DefaultAddr         = ":8080"
	DefaultWriteTimeout = 10 * time.Second
	DefaultReadLimit    = 64 * 1024
	DefaultNamespace    = "vtree"
	DefaultTracerName   = "vtree"
	DefaultLogLevel     = "info"
)

// Config is the content of vtree.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
	Log     LogConfig     `yaml:"log"`

	// configPath is the file the config was loaded from.
	configPath string
}

// ServerConfig configures the stream server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr,omitempty"`

	// WriteTimeout bounds every websocket write.
	WriteTimeout time.Duration `yaml:"writeTimeout,omitempty"`

	// ReadLimit is the largest client message accepted, in bytes.
	ReadLimit int64 `yaml:"readLimit,omitempty"`
}

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace,omitempty"`
}

// TracingConfig configures pass tracing.
type TracingConfig struct {
	TracerName string `yaml:"tracerName,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			WriteTimeout: DefaultWriteTimeout,
			ReadLimit:    DefaultReadLimit,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// LoadOptional reads vtree.yaml from dir if present. A missing file yields
// the defaults.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := LoadFile(filepath.Join(dir, ConfigFileName))
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from path. Fields missing from the file
// keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vterrors.New("E050").WithDetail("cannot read " + path).Wrap(err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, vterrors.New("E050").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid YAML")
	}
	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return vterrors.New("E050").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return vterrors.New("E050").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills fields a file explicitly emptied.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Server.WriteTimeout <= 0:
		return vterrors.New("E051").WithDetail("server.writeTimeout must be positive")
	case c.Server.ReadLimit <= 0:
		return vterrors.New("E051").WithDetail("server.readLimit must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo, vterrors.New("E051").
			WithDetail(fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return l, nil
}

// Exists checks if a config file exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the closest directory holding
// vtree.yaml. It returns startDir itself when there is none.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for d := dir; ; {
		if Exists(d) {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return dir, nil
		}
		d = parent
	}
}
