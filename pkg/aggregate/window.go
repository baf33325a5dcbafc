package aggregate

import (
	"fmt"

	"k8s.io/klog/v2"

	"environmental-node/agent/pkg/constants"
	"environmental-node/agent/pkg/sensor"
)

// Strategy selects how a window accumulates samples. Both strategies satisfy
// the same contract: the reduced mean is the arithmetic mean of exactly the
// valid samples accepted since the last reset, up to the window size.
type Strategy string

const (
	// StrategyRing keeps the last N values in a circular buffer; once full
	// the oldest value is silently overwritten.
	StrategyRing Strategy = "ring"
	// StrategyRunning keeps only a running sum and count bounded at N.
	StrategyRunning Strategy = "running"
)

// window is the per-signal accumulator. Mutated only by Ingest, reset only by
// Reset; no locking because the pipeline owns it from a single control flow.
type window interface {
	add(v float64)
	count() int
	mean() float64
	reset()
}

type ringWindow struct {
	buf    []float64
	cursor int
	filled int
}

func (w *ringWindow) add(v float64) {
	w.buf[w.cursor] = v
	w.cursor = (w.cursor + 1) % len(w.buf)
	if w.filled < len(w.buf) {
		w.filled++
	}
}

func (w *ringWindow) count() int { return w.filled }

func (w *ringWindow) mean() float64 {
	if w.filled == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < w.filled; i++ {
		sum += w.buf[i]
	}
	return sum / float64(w.filled)
}

func (w *ringWindow) reset() {
	w.cursor = 0
	w.filled = 0
}

type runningWindow struct {
	sum float64
	n   int
	cap int
}

func (w *runningWindow) add(v float64) {
	if w.n >= w.cap {
		// Bounded at N: the window is due for reduction; extra values
		// are not folded in so the mean stays over exactly N samples.
		return
	}
	w.sum += v
	w.n++
}

func (w *runningWindow) count() int { return w.n }

func (w *runningWindow) mean() float64 {
	if w.n == 0 {
		return 0
	}
	return w.sum / float64(w.n)
}

func (w *runningWindow) reset() {
	w.sum = 0
	w.n = 0
}

// Aggregator holds one fixed-size window per tracked signal and synchronizes
// reporting across them: a cycle reports only when every healthy signal has a
// full window, so a fresh mean is never paired with a stale one.
type Aggregator struct {
	size     int
	windows  map[constants.Signal]window
	degraded map[constants.Signal]bool
}

func New(strategy Strategy, size int, signals []constants.Signal) (*Aggregator, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}
	a := &Aggregator{
		size:     size,
		windows:  make(map[constants.Signal]window, len(signals)),
		degraded: make(map[constants.Signal]bool),
	}
	for _, s := range signals {
		switch strategy {
		case StrategyRing:
			a.windows[s] = &ringWindow{buf: make([]float64, size)}
		case StrategyRunning:
			a.windows[s] = &runningWindow{cap: size}
		default:
			return nil, fmt.Errorf("unknown aggregation strategy %q", strategy)
		}
	}
	return a, nil
}

// Ingest feeds one raw reading into its signal's window. Invalid readings are
// dropped with no effect on the window; the drop is logged and counted so a
// silent sensor shows up in observability, not just in missing reports.
func (a *Aggregator) Ingest(r sensor.Reading) {
	w, ok := a.windows[r.Signal]
	if !ok {
		klog.Warningf("aggregate: reading for untracked signal %q dropped", r.Signal)
		return
	}
	if !r.Valid() {
		klog.Warningf("aggregate: discarded %s sample: %s", r.Signal, r.Status)
		samplesDiscarded.WithLabelValues(string(r.Signal), string(r.Status)).Inc()
		return
	}
	w.add(r.Value)
	samplesIngested.WithLabelValues(string(r.Signal)).Inc()
}

// MarkDegraded removes a signal from the full-window predicate. Used when its
// device is absent for the process lifetime, so the surviving signals keep
// reporting instead of waiting forever.
func (a *Aggregator) MarkDegraded(s constants.Signal) {
	if !a.degraded[s] {
		klog.Warningf("aggregate: signal %s marked degraded, excluded from window synchronization", s)
		a.degraded[s] = true
	}
}

// WindowFull reports whether every healthy signal has accepted the configured
// number of valid samples since the last reset.
func (a *Aggregator) WindowFull() bool {
	healthy := 0
	for s, w := range a.windows {
		if a.degraded[s] {
			continue
		}
		healthy++
		if w.count() < a.size {
			return false
		}
	}
	return healthy > 0
}

// HasData reports whether a signal's mean is backed by real samples: the
// signal is not degraded and has accepted at least one value since the last
// reset. A mean without data behind it is the placeholder 0 and must not
// drive alert decisions.
func (a *Aggregator) HasData(s constants.Signal) bool {
	if a.degraded[s] {
		return false
	}
	w, ok := a.windows[s]
	return ok && w.count() > 0
}

// HasSamples reports whether any window holds at least one value.
func (a *Aggregator) HasSamples() bool {
	for _, w := range a.windows {
		if w.count() > 0 {
			return true
		}
	}
	return false
}

// Reduce returns the arithmetic mean per signal. An empty window reduces to
// 0 rather than faulting on the zero count.
func (a *Aggregator) Reduce() map[constants.Signal]float64 {
	means := make(map[constants.Signal]float64, len(a.windows))
	for s, w := range a.windows {
		means[s] = w.mean()
	}
	return means
}

// Reset clears all accumulated state for the next cycle. Degradation marks
// survive a reset; sample history does not.
func (a *Aggregator) Reset() {
	for _, w := range a.windows {
		w.reset()
	}
}
