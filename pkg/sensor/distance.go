package sensor

import (
	"errors"
	"time"

	"k8s.io/klog/v2"

	"environmental-node/agent/pkg/constants"
)

// ErrEchoTimeout is returned by an EchoDriver when no echo came back within
// the guard window.
var ErrEchoTimeout = errors.New("no echo within timeout")

// EchoDriver is the hardware contract for a pulse-based ranging transducer:
// trigger a pulse, return the echo round-trip time. A missing echo must be
// reported as ErrEchoTimeout rather than blocking past the given guard.
type EchoDriver interface {
	Echo(timeout time.Duration) (time.Duration, error)
}

// DistanceAdapter converts echo round-trip times into centimeters and rejects
// implausible measurements instead of clamping them.
type DistanceAdapter struct {
	driver      EchoDriver
	echoTimeout time.Duration
	minCm       float64
	maxCm       float64
}

func NewDistanceAdapter(driver EchoDriver, echoTimeout time.Duration, minCm, maxCm float64) *DistanceAdapter {
	return &DistanceAdapter{
		driver:      driver,
		echoTimeout: echoTimeout,
		minCm:       minCm,
		maxCm:       maxCm,
	}
}

func (a *DistanceAdapter) Signal() constants.Signal {
	return constants.SignalDistance
}

func (a *DistanceAdapter) Sample() Reading {
	echo, err := a.driver.Echo(a.echoTimeout)
	if err != nil {
		if errors.Is(err, ErrEchoTimeout) {
			klog.V(4).Infof("distance: echo timeout after %v", a.echoTimeout)
			return Reading{Signal: constants.SignalDistance, Status: StatusTimeout}
		}
		klog.Warningf("distance: driver error: %v", err)
		return Reading{Signal: constants.SignalDistance, Status: StatusReadingNotReady}
	}

	// Round trip covers the path twice.
	cm := echo.Seconds() * constants.SpeedOfSoundCmPerSec / 2

	if cm < a.minCm || cm > a.maxCm {
		klog.V(4).Infof("distance: %.2fcm outside [%.2f, %.2f], rejected", cm, a.minCm, a.maxCm)
		return Reading{Signal: constants.SignalDistance, Status: StatusOutOfRange}
	}

	return Reading{Signal: constants.SignalDistance, Value: cm, Status: StatusOK}
}
