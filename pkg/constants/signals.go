package constants

// Signal identifies one of the physical quantities the node measures.
type Signal string

const (
	SignalDistance   Signal = "distance"
	SignalLuminosity Signal = "luminosity"
)

// TrackedSignals lists every signal the pipeline aggregates, in report order.
var TrackedSignals = []Signal{SignalDistance, SignalLuminosity}
