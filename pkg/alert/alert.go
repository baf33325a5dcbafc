// Package alert derives boolean alert flags from window means. Evaluation is
// a pure function of the means and the static thresholds: no hysteresis, no
// debouncing, every completed cycle re-evaluates independently.
package alert

// Thresholds are the two static alert levels, immutable after startup.
type Thresholds struct {
	DistanceCm   float64
	LuminosityLx float64
}

// Flags is the evaluator output carried on a report.
type Flags struct {
	Proximity bool
	Dark      bool
}

// Evaluate compares the window means against the thresholds.
func Evaluate(meanDistanceCm, meanLuminosityLx float64, t Thresholds) Flags {
	return Flags{
		Proximity: meanDistanceCm < t.DistanceCm,
		Dark:      meanLuminosityLx < t.LuminosityLx,
	}
}
