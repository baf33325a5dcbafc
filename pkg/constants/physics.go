package constants

// This file centralizes the physical constants of the ranging measurement.

const (
	// SpeedOfSoundCmPerSec is the propagation speed used to convert an
	// ultrasonic echo round-trip time into a distance (dry air, ~20 C).
	SpeedOfSoundCmPerSec = 34300.0

	// DistanceBlindZoneCm is the minimum distance the transducer can
	// resolve; anything closer is ringing, not an echo.
	DistanceBlindZoneCm = 2.0

	// DistanceTrustLimitCm is the maximum range the transducer is rated
	// for; beyond it the echo is too attenuated to trust.
	DistanceTrustLimitCm = 350.0
)
