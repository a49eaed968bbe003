// Package config loads and validates the daemon's HCL configuration.
package config

import (
	"fmt"
	"net"
	"time"

	"wgpeerd/internal/brand"
)

// Config is the daemon configuration. All blocks are optional; missing
// blocks fall back to defaults via ApplyDefaults.
type Config struct {
	Server    *ServerConfig    `hcl:"server,block"`
	WireGuard *WireGuardConfig `hcl:"wireguard,block"`
	Log       *LogConfig       `hcl:"log,block"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	// Listen is the address of the metrics/API listener. 9586 is the
	// port conventionally used by WireGuard exporters.
	Listen string `hcl:"listen,optional"`
}

// WireGuardConfig selects which devices to scrape and where friendly
// names come from.
type WireGuardConfig struct {
	// Interface is a device name, or "all" to scrape every WireGuard
	// device on the host.
	Interface string `hcl:"interface,optional"`

	// ConfigFile is the wg-quick style config whose [Peer] sections
	// carry "# friendly_name=..." comments.
	ConfigFile string `hcl:"config_file,optional"`

	// ScrapeInterval is a Go duration string, e.g. "15s".
	ScrapeInterval string `hcl:"scrape_interval,optional"`

	scrapeInterval time.Duration
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `hcl:"level,optional"`
	JSON  bool   `hcl:"json,optional"`
}

// InterfaceAll selects every WireGuard device on the host.
const InterfaceAll = "all"

// Default returns a fully-populated default configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in missing blocks and empty fields.
func (c *Config) ApplyDefaults() {
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":9586"
	}
	if c.WireGuard == nil {
		c.WireGuard = &WireGuardConfig{}
	}
	if c.WireGuard.Interface == "" {
		c.WireGuard.Interface = InterfaceAll
	}
	if c.WireGuard.ConfigFile == "" {
		c.WireGuard.ConfigFile = brand.DefaultWireGuardConfig
	}
	if c.WireGuard.ScrapeInterval == "" {
		c.WireGuard.ScrapeInterval = "15s"
	}
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration and resolves derived fields.
// Call after ApplyDefaults.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		return fmt.Errorf("invalid server listen address %q: %w", c.Server.Listen, err)
	}

	d, err := time.ParseDuration(c.WireGuard.ScrapeInterval)
	if err != nil {
		return fmt.Errorf("invalid scrape_interval %q: %w", c.WireGuard.ScrapeInterval, err)
	}
	if d <= 0 {
		return fmt.Errorf("scrape_interval must be positive, got %q", c.WireGuard.ScrapeInterval)
	}
	c.WireGuard.scrapeInterval = d

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	return nil
}

// Interval returns the parsed scrape interval. Valid only after
// Validate has succeeded.
func (w *WireGuardConfig) Interval() time.Duration {
	return w.scrapeInterval
}
