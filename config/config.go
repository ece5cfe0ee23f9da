// Package config loads domainsale's YAML configuration file, the way
// blocky's config package loads its own: defaults applied via creasty/defaults,
// then overridden by a strict YAML unmarshal that rejects unknown fields.
package config

import (
	"fmt"
	"os"

	"github.com/domainsale/domainsale/log"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v2"
)

// Config is the top-level domainsale configuration.
type Config struct {
	Upstream      string     `yaml:"upstream"       default:"127.0.0.1:53"`
	RequireDNSSEC bool       `yaml:"requireDnssec"  default:"true"`
	EnableRDAP    bool       `yaml:"enableRdap"     default:"false"`
	CacheTTL      Duration   `yaml:"cacheTtl"       default:"300"`
	Timeout       Duration   `yaml:"timeout"        default:"5"`
	Log           log.Config `yaml:"log"`
}

// LoadConfig reads and parses the YAML file at path. When path is empty, it
// returns the default configuration without touching the filesystem — the
// CLI falls back to this when no --config flag is given.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("applying config defaults: %w", err)
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}
