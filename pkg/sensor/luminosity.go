package sensor

import (
	"k8s.io/klog/v2"

	"environmental-node/agent/pkg/constants"
)

// LightMeter is the hardware contract for the ambient-light sensor. Init is
// expected to be expensive (bus probe, gain setup) and is attempted exactly
// once, lazily, on first sample. ReadLux returns a negative value while the
// meter has no finished measurement.
type LightMeter interface {
	Init() error
	ReadLux() (float64, error)
}

// initState tracks the single lazy initialization attempt.
type initState int

const (
	stateUninitialized initState = iota
	stateReady
	stateFailed
)

// LuminosityAdapter wraps the light meter behind the uniform sampling
// contract. A failed init degrades the signal for the process lifetime; there
// is no automatic re-init, so a flaky bus cannot turn sampling into a retry
// storm.
type LuminosityAdapter struct {
	driver LightMeter
	state  initState
}

func NewLuminosityAdapter(driver LightMeter) *LuminosityAdapter {
	return &LuminosityAdapter{driver: driver, state: stateUninitialized}
}

func (a *LuminosityAdapter) Signal() constants.Signal {
	return constants.SignalLuminosity
}

func (a *LuminosityAdapter) Sample() Reading {
	switch a.state {
	case stateUninitialized:
		if err := a.driver.Init(); err != nil {
			klog.Errorf("luminosity: init failed, signal degraded for process lifetime: %v", err)
			a.state = stateFailed
			return Reading{Signal: constants.SignalLuminosity, Status: StatusDeviceAbsent}
		}
		klog.Info("luminosity: meter initialized")
		a.state = stateReady
	case stateFailed:
		return Reading{Signal: constants.SignalLuminosity, Status: StatusDeviceAbsent}
	}

	lux, err := a.driver.ReadLux()
	if err != nil {
		klog.Warningf("luminosity: read error: %v", err)
		return Reading{Signal: constants.SignalLuminosity, Status: StatusReadingNotReady}
	}
	if lux < 0 {
		// The meter signals "not finished integrating" with a negative
		// raw value; distinct from an absent device.
		klog.V(4).Info("luminosity: reading not ready")
		return Reading{Signal: constants.SignalLuminosity, Status: StatusReadingNotReady}
	}

	return Reading{Signal: constants.SignalLuminosity, Value: lux, Status: StatusOK}
}
