package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied to fields left empty in the config file.
const (
	DefaultBaseURL  = "https://dummyjson.com"
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
)

// Config holds client settings loaded from userlist.yml.
type Config struct {
	BaseURL   string        `yaml:"baseURL,omitempty" validate:"required,url"`
	Timeout   time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`
	LogLevel  string        `yaml:"logLevel,omitempty" validate:"required,oneof=debug info warn error"`
	UserAgent string        `yaml:"userAgent,omitempty"`
	MCPAddr   string        `yaml:"mcpAddr,omitempty" validate:"omitempty,hostname_port"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads userlist.yml or userlist.yaml from dir. A missing file is not
// an error: the defaults are returned instead.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"userlist.yml", "userlist.yaml"} {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

// LoadFile reads a single config file, applies defaults, and validates it.
// The returned error satisfies os.IsNotExist when the file is missing.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyDefaults fills empty fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
