// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultOutputPath is where the comparison CSV goes when no path is set.
	DefaultOutputPath = "./report.csv"
	// DefaultPattern selects the target backend's performance files.
	DefaultPattern = "*_xpu_performance.csv"

	defaultIterations  = 20
	defaultWarmup      = 1
	defaultMaxElements = 1 << 27
)

// Config represents the top-level application configuration.
type Config struct {
	TargetDir        string     `json:"target" mapstructure:"target"`
	BaselineDir      string     `json:"baseline" mapstructure:"baseline"`
	OutputPath       string     `json:"output" mapstructure:"output"`
	Pattern          string     `json:"pattern" mapstructure:"pattern"`
	JSONOutputPath   string     `json:"jsonOutput,omitempty" mapstructure:"jsonOutput"`
	HTMLOutputPath   string     `json:"htmlOutput,omitempty" mapstructure:"htmlOutput"`
	CategoryPatterns []string   `json:"categoryPatterns,omitempty" mapstructure:"categoryPatterns"`
	LogFile          string     `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug            bool       `json:"debug" mapstructure:"debug"`
	Microbench       Microbench `json:"microbench" mapstructure:"microbench"`
	ConfigPath       string     `json:"-" mapstructure:"-"`
}

// Microbench holds the loop settings for the microbench commands.
type Microbench struct {
	Iterations  int      `json:"iterations,omitempty" mapstructure:"iterations"`
	Warmup      int      `json:"warmup,omitempty" mapstructure:"warmup"`
	MaxElements int      `json:"maxElements,omitempty" mapstructure:"maxElements"`
	DTypes      []string `json:"dtypes,omitempty" mapstructure:"dtypes"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		OutputPath: DefaultOutputPath,
		Pattern:    DefaultPattern,
		Microbench: Microbench{
			Iterations:  defaultIterations,
			Warmup:      defaultWarmup,
			MaxElements: defaultMaxElements,
		},
	}
}

// OutputFile returns the CSV destination, falling back to DefaultOutputPath.
func (c Config) OutputFile() string {
	if p := strings.TrimSpace(c.OutputPath); p != "" {
		return p
	}
	return DefaultOutputPath
}

// FilePattern returns the discovery glob, falling back to DefaultPattern.
func (c Config) FilePattern() string {
	if p := strings.TrimSpace(c.Pattern); p != "" {
		return p
	}
	return DefaultPattern
}

// LogFilePath returns the log file path. Empty means log to stderr only.
func (c Config) LogFilePath() string {
	return strings.TrimSpace(c.LogFile)
}

// Load reads the configuration at path, validating it against Schema first.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Errorf("no configuration file found at %q", path)
		}
		return Config{}, errors.Wrapf(err, "could not read config file %q", path)
	}
	config.ConfigPath = path
	return config, nil
}

// ReadValidated returns the raw JSON at path once it passes Validate. A missing
// file yields an error satisfying errors.Is(err, os.ErrNotExist).
func ReadValidated(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	data, err := ReadValidated(path)
	if err != nil {
		return Config{}, err
	}

	config := Defaults()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	config.applyDefaults()
	return config, nil
}

func (c *Config) applyDefaults() {
	d := Defaults()
	if strings.TrimSpace(c.OutputPath) == "" {
		c.OutputPath = d.OutputPath
	}
	if strings.TrimSpace(c.Pattern) == "" {
		c.Pattern = d.Pattern
	}
	if c.Microbench.Iterations <= 0 {
		c.Microbench.Iterations = d.Microbench.Iterations
	}
	if c.Microbench.Warmup < 0 {
		c.Microbench.Warmup = d.Microbench.Warmup
	}
	if c.Microbench.MaxElements <= 0 {
		c.Microbench.MaxElements = d.Microbench.MaxElements
	}
}

// Normalize fills unset fields with defaults. Used after viper has merged
// flags and the config file.
func (c Config) Normalize() Config {
	c.applyDefaults()
	return c
}
