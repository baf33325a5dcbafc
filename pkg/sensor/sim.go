package sensor

import (
	"math/rand"
	"time"

	"environmental-node/agent/pkg/constants"
)

// Simulated drivers for bench and soak runs without hardware attached.

// SimEchoDriver produces echo times for a target that random-walks between
// the plausibility bounds.
type SimEchoDriver struct {
	cm  float64
	rng *rand.Rand
}

func NewSimEchoDriver(seed int64) *SimEchoDriver {
	return &SimEchoDriver{
		cm:  120,
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (d *SimEchoDriver) Echo(timeout time.Duration) (time.Duration, error) {
	d.cm += (d.rng.Float64() - 0.5) * 10
	if d.cm < constants.DistanceBlindZoneCm+5 {
		d.cm = constants.DistanceBlindZoneCm + 5
	}
	if d.cm > constants.DistanceTrustLimitCm-5 {
		d.cm = constants.DistanceTrustLimitCm - 5
	}
	echo := time.Duration(2 * d.cm / constants.SpeedOfSoundCmPerSec * float64(time.Second))
	if echo > timeout {
		return 0, ErrEchoTimeout
	}
	return echo, nil
}

// SimLightMeter drifts slowly around indoor light levels. Init always
// succeeds.
type SimLightMeter struct {
	lux float64
	rng *rand.Rand
}

func NewSimLightMeter(seed int64) *SimLightMeter {
	return &SimLightMeter{lux: 180, rng: rand.New(rand.NewSource(seed))}
}

func (d *SimLightMeter) Init() error { return nil }

func (d *SimLightMeter) ReadLux() (float64, error) {
	d.lux += (d.rng.Float64() - 0.5) * 20
	if d.lux < 0 {
		d.lux = 0
	}
	return d.lux, nil
}
