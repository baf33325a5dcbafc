package constants

// This file centralizes the default configuration values of the agent.

const (
	// DefaultSampleIntervalMs is how often the scheduler lets a raw
	// sample happen.
	DefaultSampleIntervalMs = 2000

	// DefaultWindowSize is the number of valid samples per signal that
	// make up one report window.
	DefaultWindowSize = 5

	// DefaultDistanceAlertCm is the proximity alert threshold.
	DefaultDistanceAlertCm = 50.0
	// DefaultLuminosityAlertLx is the darkness alert threshold.
	DefaultLuminosityAlertLx = 30.0

	// DefaultDispatchTimeoutSec bounds a single report dispatch attempt.
	DefaultDispatchTimeoutSec = 10

	// DefaultDiagAddr is the local diagnostics listen address.
	DefaultDiagAddr = ":9402"
)
