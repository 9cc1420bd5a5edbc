package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration defaults.
const (
	DefaultCacheCapacity = 5
	DefaultDatasetPath   = "DataSet.txt"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultOutputFormat  = OutputFormatText
	DefaultPrecision     = 2

	// MaxPrecision bounds output.precision.
	MaxPrecision = 10

	configFileName = "config.yaml"
	outputTypeFile = "file"
)

// Supported output formats.
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Environment variables that override the configuration file.
const (
	EnvHome          = "FINQUERY_HOME"
	EnvProjectDir    = "FINQUERY_PROJECT_DIR"
	EnvCacheCapacity = "FINQUERY_CACHE_CAPACITY"
	EnvDataset       = "FINQUERY_DATASET"
	EnvLogLevel      = "FINQUERY_LOG_LEVEL"
	EnvLogFormat     = "FINQUERY_LOG_FORMAT"
	EnvOutputFormat  = "FINQUERY_OUTPUT_FORMAT"
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknownKey    = errors.New("unknown configuration key")
)

// Config is the finquery configuration file.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Dataset DatasetConfig `yaml:"dataset"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`

	configPath string
}

// CacheConfig configures the query result cache.
type CacheConfig struct {
	// Capacity is the maximum number of cached query results.
	Capacity int `yaml:"capacity"`
}

// DatasetConfig locates the dataset loaded at startup.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// OutputConfig configures how answers are rendered.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// Default returns a configuration holding only built-in defaults.
func Default() *Config {
	return &Config{
		Cache:   CacheConfig{Capacity: DefaultCacheCapacity},
		Dataset: DatasetConfig{Path: DefaultDatasetPath},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Output:  OutputConfig{DefaultFormat: DefaultOutputFormat, Precision: DefaultPrecision},
	}
}

// New returns the effective configuration: defaults, overlaid by the global
// config file when it exists, overlaid by environment variables.
// An unreadable or malformed config file is ignored in favour of defaults.
func New() *Config {
	cfg := Default()

	if dir, err := GetConfigDir(); err == nil {
		path := filepath.Join(dir, configFileName)
		cfg.configPath = path
		if _, statErr := os.Stat(path); statErr == nil {
			if loaded, loadErr := Load(path); loadErr == nil {
				cfg = loaded
			}
		}
	}

	cfg.ApplyEnvOverrides()
	return cfg
}

// Load reads the YAML file at path on top of the defaults. Environment
// overrides are not applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.configPath = path
	return cfg, nil
}

// Save writes the configuration to its config path, creating parent directories.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// SetConfigPath sets the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// ApplyEnvOverrides applies FINQUERY_* environment variables. Values that do
// not parse are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvCacheCapacity); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.Capacity = n
		}
	}
	if v := os.Getenv(EnvDataset); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
}

// Validate checks that the configuration can be used to build a query engine.
func (c *Config) Validate() error {
	var errs []error

	if c.Cache.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache.capacity must be greater than zero, got %d",
			ErrInvalidConfig, c.Cache.Capacity))
	}
	if strings.TrimSpace(c.Dataset.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: dataset.path cannot be empty", ErrInvalidConfig))
	}
	switch c.Output.DefaultFormat {
	case OutputFormatText, OutputFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: output.default_format must be %q or %q, got %q",
			ErrInvalidConfig, OutputFormatText, OutputFormatJSON, c.Output.DefaultFormat))
	}
	if c.Output.Precision < 0 || c.Output.Precision > MaxPrecision {
		errs = append(errs, fmt.Errorf("%w: output.precision must be between 0 and %d, got %d",
			ErrInvalidConfig, MaxPrecision, c.Output.Precision))
	}

	return errors.Join(errs...)
}

// Keys returns every dotted key accepted by Get and Set, sorted.
func Keys() []string {
	keys := []string{
		"cache.capacity",
		"dataset.path",
		"logging.level",
		"logging.format",
		"logging.file",
		"output.default_format",
		"output.precision",
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key such as "cache.capacity".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "cache.capacity":
		return strconv.Itoa(c.Cache.Capacity), nil
	case "dataset.path":
		return c.Dataset.Path, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	case "output.default_format":
		return c.Output.DefaultFormat, nil
	case "output.precision":
		return strconv.Itoa(c.Output.Precision), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set assigns value to a dotted key. Integer keys must parse as integers.
// The result is not validated; call Validate before saving.
func (c *Config) Set(key, value string) error {
	switch key {
	case "cache.capacity":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: cache.capacity must be an integer: %w", ErrInvalidConfig, err)
		}
		c.Cache.Capacity = n
	case "dataset.path":
		c.Dataset.Path = value
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	case "output.default_format":
		c.Output.DefaultFormat = value
	case "output.precision":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: output.precision must be an integer: %w", ErrInvalidConfig, err)
		}
		c.Output.Precision = n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}
