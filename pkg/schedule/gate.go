package schedule

// IntervalGate decides whether a raw sample is due on the current tick.
// It never blocks and never waits; the enclosing control loop decides what
// else runs while a sample is not due.
//
// Tick counters on long-lived nodes wrap, so all arithmetic is done modulo
// 2^32: now-last is correct across the wraparound boundary as long as the
// true elapsed span is below 2^31 ticks.
type IntervalGate struct {
	interval uint32
	last     uint32
}

func NewIntervalGate(interval uint32) *IntervalGate {
	return &IntervalGate{interval: interval}
}

// Due reports whether a full interval has elapsed since the last fire.
// It does not mutate state: the caller acknowledges a fire via MarkFired,
// so a tick that is due stays due until explicitly consumed.
func (g *IntervalGate) Due(now uint32) bool {
	return now-g.last >= g.interval
}

// MarkFired records that the caller acted on a due tick.
func (g *IntervalGate) MarkFired(now uint32) {
	g.last = now
}
