// Package config loads optional lookout settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soclabs/lookout/pkg/ports"
)

// Duration parses YAML values like "500ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// PortEntry is one custom catalog row in the config file.
type PortEntry struct {
	Port    int    `yaml:"port"`
	Service string `yaml:"service"`
	// Probe selects the banner strategy: "passive" (default) or "request".
	Probe string `yaml:"probe,omitempty"`
}

// File is the on-disk configuration shape.
type File struct {
	ConnectTimeout Duration    `yaml:"connect_timeout"`
	ReadTimeout    Duration    `yaml:"read_timeout"`
	ScanTimeout    Duration    `yaml:"scan_timeout"`
	Concurrency    int         `yaml:"concurrency"`
	RateLimit      int         `yaml:"rate_limit"`
	Ports          []PortEntry `yaml:"ports"`
}

// Default returns the settings used when no config file is given.
func Default() File {
	return File{
		ConnectTimeout: Duration(1 * time.Second),
		ReadTimeout:    Duration(2 * time.Second),
		Concurrency:    20,
	}
}

// Load reads a YAML config file and merges it over the defaults.
// Fields left out of the file keep their default values.
func Load(path string) (File, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Concurrency < 0 {
		return cfg, fmt.Errorf("config %s: concurrency must not be negative", path)
	}
	if cfg.RateLimit < 0 {
		return cfg, fmt.Errorf("config %s: rate_limit must not be negative", path)
	}
	if _, err := cfg.Catalog(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Catalog builds the port catalog from the config, or returns the common
// catalog when the file defines no custom ports.
func (f File) Catalog() (ports.Catalog, error) {
	if len(f.Ports) == 0 {
		return ports.Common, nil
	}

	var cat ports.Catalog
	for _, entry := range f.Ports {
		spec := ports.Spec{Port: entry.Port, Service: entry.Service}
		if spec.Service == "" {
			spec.Service = ports.ServiceUnknown
		}

		switch entry.Probe {
		case "", "passive":
			spec.Strategy = ports.PassiveRead
		case "request":
			spec.Strategy = ports.SendRequest
		default:
			return nil, fmt.Errorf("port %d: unknown probe %q (want passive or request)", entry.Port, entry.Probe)
		}

		cat = append(cat, spec)
	}

	cat = cat.Sorted()
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}
