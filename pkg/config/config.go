// Package config holds the static configuration surface of the agent: set
// once at startup, never reloaded.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"environmental-node/agent/pkg/aggregate"
	"environmental-node/agent/pkg/constants"
	"environmental-node/agent/pkg/report"
)

type Config struct {
	// Identity and destination.
	DeviceID string `yaml:"device_id"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	// Transport is the deployment wire variant: "post" or "get".
	Transport string `yaml:"transport"`

	// Sampling and aggregation.
	SampleIntervalMs uint32 `yaml:"sample_interval_ms"`
	WindowSize       int    `yaml:"window_size"`
	// Strategy is the accumulation strategy: "ring" or "running".
	Strategy string `yaml:"strategy"`

	// Distance plausibility bounds and alert thresholds.
	DistanceMinCm     float64 `yaml:"distance_min_cm"`
	DistanceMaxCm     float64 `yaml:"distance_max_cm"`
	DistanceAlertCm   float64 `yaml:"distance_alert_cm"`
	LuminosityAlertLx float64 `yaml:"luminosity_alert_lx"`

	// Payload variant flags, fixed per deployment.
	IncludeAlerts      bool `yaml:"include_alerts"`
	IncludeTimestamp   bool `yaml:"include_timestamp"`
	UseHardwareAddress bool `yaml:"use_hardware_address"`

	// ReportPartialWindow makes a cycle report whatever it holds once
	// window_size fires have passed without a full window forming.
	// Off by default: wait for a full window however long it takes.
	ReportPartialWindow bool `yaml:"report_partial_window"`

	// Collaborators.
	ProbeHost          string `yaml:"probe_host"`
	DiagAddr           string `yaml:"diag_addr"`
	DispatchTimeoutSec int    `yaml:"dispatch_timeout_sec"`
	EchoTimeoutMs      int    `yaml:"echo_timeout_ms"`

	// SimulateSensors swaps the hardware drivers for simulated ones.
	SimulateSensors bool `yaml:"simulate_sensors"`
}

// Default returns the configuration an agent runs with when given nothing
// but an endpoint.
func Default() Config {
	return Config{
		DeviceID:           "env-node-0",
		Transport:          string(report.TransportPost),
		SampleIntervalMs:   constants.DefaultSampleIntervalMs,
		WindowSize:         constants.DefaultWindowSize,
		Strategy:           string(aggregate.StrategyRing),
		DistanceMinCm:      constants.DistanceBlindZoneCm,
		DistanceMaxCm:      constants.DistanceTrustLimitCm,
		DistanceAlertCm:    constants.DefaultDistanceAlertCm,
		LuminosityAlertLx:  constants.DefaultLuminosityAlertLx,
		IncludeAlerts:      true,
		IncludeTimestamp:   true,
		DiagAddr:           constants.DefaultDiagAddr,
		DispatchTimeoutSec: constants.DefaultDispatchTimeoutSec,
		EchoTimeoutMs:      60,
	}
}

// Load overlays a YAML file onto the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	klog.Infof("loaded configuration from %s", path)
	return cfg, nil
}

// Validate fails fast on a configuration the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.Transport != string(report.TransportPost) && c.Transport != string(report.TransportGet) {
		return fmt.Errorf("transport must be %q or %q, got %q", report.TransportPost, report.TransportGet, c.Transport)
	}
	if c.Strategy != string(aggregate.StrategyRing) && c.Strategy != string(aggregate.StrategyRunning) {
		return fmt.Errorf("strategy must be %q or %q, got %q", aggregate.StrategyRing, aggregate.StrategyRunning, c.Strategy)
	}
	if c.SampleIntervalMs == 0 {
		return fmt.Errorf("sample_interval_ms must be positive")
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.DistanceMinCm >= c.DistanceMaxCm {
		return fmt.Errorf("distance bounds inverted: min %.2f >= max %.2f", c.DistanceMinCm, c.DistanceMaxCm)
	}
	if c.ProbeHost == "" {
		return fmt.Errorf("probe_host is required")
	}
	return nil
}
