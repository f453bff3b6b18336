package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kiliankoe/bowling/internal/scoring"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel       string               `yaml:"log_level"`
	LogFormat      string               `yaml:"log_format"` // console|json
	DefaultVariant string               `yaml:"default_variant"`
	Sheet          string               `yaml:"sheet"` // detailed|classic
	Cheaters       []string             `yaml:"cheaters"`
	ResultsFile    string               `yaml:"results_file"`
	MetricsFile    string               `yaml:"metrics_file"`
	TraceFile      string               `yaml:"trace_file"`
	Variants       []scoring.RuleConfig `yaml:"variants"`
}

func Default() Config {
	return Config{
		LogLevel:       "warn",
		LogFormat:      "console",
		DefaultVariant: scoring.TenPin.Name,
		Sheet:          "detailed",
	}
}

// FromEnv returns the defaults overridden by BOWLING_* environment variables.
func FromEnv() Config {
	c := Default()
	c.applyEnv()
	return c
}

// Load reads a YAML config file and applies environment overrides on top.
// A missing file is not an error: the defaults and environment are used.
func Load(filename string) (Config, error) {
	c := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}
	c.applyEnv()
	return c, c.Validate()
}

func (c *Config) applyEnv() {
	c.LogLevel = getenv("BOWLING_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("BOWLING_LOG_FORMAT", c.LogFormat)
	c.DefaultVariant = getenv("BOWLING_DEFAULT_VARIANT", c.DefaultVariant)
	c.Sheet = getenv("BOWLING_SHEET", c.Sheet)
	c.ResultsFile = getenv("BOWLING_RESULTS_FILE", c.ResultsFile)
	c.MetricsFile = getenv("BOWLING_METRICS_FILE", c.MetricsFile)
	c.TraceFile = getenv("BOWLING_TRACE_FILE", c.TraceFile)
	if v := os.Getenv("BOWLING_CHEATERS"); v != "" {
		c.Cheaters = nil
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Cheaters = append(c.Cheaters, name)
			}
		}
	}
}

func (c Config) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	switch c.Sheet {
	case "detailed", "classic":
	default:
		return fmt.Errorf("sheet must be detailed or classic, got %q", c.Sheet)
	}
	return nil
}

// Catalog returns the built-in variants plus the ones defined in the config,
// and checks that the default variant exists.
func (c Config) Catalog() (*scoring.Catalog, error) {
	cat := scoring.NewCatalog()
	for _, v := range c.Variants {
		if err := cat.Register(v); err != nil {
			return nil, fmt.Errorf("variant %q: %w", v.Name, err)
		}
	}
	if _, err := cat.Lookup(c.DefaultVariant); err != nil {
		return nil, fmt.Errorf("default_variant: %w", err)
	}
	return cat, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
