package sensor

import "environmental-node/agent/pkg/constants"

// Status classifies the outcome of one sample attempt. Invalidity is carried
// here explicitly instead of overloading reserved numeric values, so an error
// can never be mistaken for a legitimate physical reading.
type Status string

const (
	// StatusOK means Value holds a trustworthy physical reading.
	StatusOK Status = "ok"
	// StatusOutOfRange means the measurement fell outside the sensor's
	// plausibility bounds and was rejected, not clamped.
	StatusOutOfRange Status = "out_of_range"
	// StatusReadingNotReady means the device answered but had no valid
	// measurement yet (e.g. integration still in progress).
	StatusReadingNotReady Status = "reading_not_ready"
	// StatusDeviceAbsent means the device never initialized; every sample
	// for the rest of the process lifetime carries this status.
	StatusDeviceAbsent Status = "device_absent"
	// StatusTimeout means the blocking read exceeded its guard timeout.
	StatusTimeout Status = "timeout"
)

// Reading is one raw sample, produced once per due tick and consumed by the
// aggregator on the same tick. It is never persisted.
type Reading struct {
	Signal constants.Signal
	Value  float64
	Status Status
}

// Valid reports whether the reading may enter an aggregation window.
func (r Reading) Valid() bool {
	return r.Status == StatusOK
}

// Adapter is the uniform sampling contract both physical sensors are wrapped
// behind: one blocking, timeout-guarded read yielding a value or an invalid
// reason.
type Adapter interface {
	// Signal identifies which quantity this adapter measures.
	Signal() constants.Signal
	// Sample performs one read. It may block for a bounded, sensor-defined
	// duration but never indefinitely.
	Sample() Reading
}
