package aggregate

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"environmental-node/agent/pkg/constants"
	"environmental-node/agent/pkg/sensor"
)

const tolerance = 1e-9

func newTestAggregator(t *testing.T, strategy Strategy, size int) *Aggregator {
	t.Helper()
	a, err := New(strategy, size, constants.TrackedSignals)
	if err != nil {
		t.Fatalf("New(%q, %d): %v", strategy, size, err)
	}
	return a
}

func ingestValid(a *Aggregator, s constants.Signal, values ...float64) {
	for _, v := range values {
		a.Ingest(sensor.Reading{Signal: s, Value: v, Status: sensor.StatusOK})
	}
}

func TestReduce_ExactMeanBothStrategies(t *testing.T) {
	samples := []float64{40, 45, 50, 42, 38}
	want := 43.0

	for _, strategy := range []Strategy{StrategyRing, StrategyRunning} {
		t.Run(string(strategy), func(t *testing.T) {
			a := newTestAggregator(t, strategy, len(samples))
			ingestValid(a, constants.SignalDistance, samples...)

			got := a.Reduce()[constants.SignalDistance]
			if math.Abs(got-want) > tolerance {
				t.Errorf("mean = %v, want %v", got, want)
			}
		})
	}
}

func TestIngest_InvalidSampleIsNoOp(t *testing.T) {
	invalidStatuses := []sensor.Status{
		sensor.StatusOutOfRange,
		sensor.StatusReadingNotReady,
		sensor.StatusDeviceAbsent,
		sensor.StatusTimeout,
	}

	for _, strategy := range []Strategy{StrategyRing, StrategyRunning} {
		t.Run(string(strategy), func(t *testing.T) {
			a := newTestAggregator(t, strategy, 3)
			ingestValid(a, constants.SignalDistance, 10, 20)
			before := a.Reduce()[constants.SignalDistance]

			for _, st := range invalidStatuses {
				a.Ingest(sensor.Reading{Signal: constants.SignalDistance, Value: 999, Status: st})
			}

			after := a.Reduce()[constants.SignalDistance]
			if after != before {
				t.Errorf("mean changed from %v to %v after invalid samples", before, after)
			}
			if a.WindowFull() {
				t.Error("window reported full after only invalid samples")
			}
		})
	}
}

func TestIngest_DiscardedSamplesAreCounted(t *testing.T) {
	a := newTestAggregator(t, StrategyRing, 3)

	counter := samplesDiscarded.WithLabelValues(
		string(constants.SignalLuminosity), string(sensor.StatusDeviceAbsent))
	before := testutil.ToFloat64(counter)

	a.Ingest(sensor.Reading{Signal: constants.SignalLuminosity, Status: sensor.StatusDeviceAbsent})
	a.Ingest(sensor.Reading{Signal: constants.SignalLuminosity, Status: sensor.StatusDeviceAbsent})

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("device_absent discards counted = %v, want 2", got)
	}
}

func TestReset_ClearsStateAndGuardsZeroDivide(t *testing.T) {
	for _, strategy := range []Strategy{StrategyRing, StrategyRunning} {
		t.Run(string(strategy), func(t *testing.T) {
			a := newTestAggregator(t, strategy, 2)
			ingestValid(a, constants.SignalDistance, 10, 20)
			ingestValid(a, constants.SignalLuminosity, 5, 7)
			if !a.WindowFull() {
				t.Fatal("window not full after N samples per signal")
			}

			a.Reset()

			if a.WindowFull() {
				t.Error("WindowFull() = true after Reset")
			}
			means := a.Reduce()
			for sig, m := range means {
				if m != 0 {
					t.Errorf("Reduce()[%s] = %v on empty window, want 0", sig, m)
				}
			}
		})
	}
}

func TestWindowFull_CrossSignalSynchronization(t *testing.T) {
	a := newTestAggregator(t, StrategyRunning, 3)
	ingestValid(a, constants.SignalDistance, 1, 2, 3)

	// Distance is full but luminosity is still filling: the cycle must not
	// pair a fresh distance mean with a stale luminosity one.
	if a.WindowFull() {
		t.Fatal("WindowFull() = true with one signal still filling")
	}

	ingestValid(a, constants.SignalLuminosity, 4, 5, 6)
	if !a.WindowFull() {
		t.Error("WindowFull() = false with both signals at capacity")
	}
}

func TestMarkDegraded_ExcludesSignalFromSynchronization(t *testing.T) {
	a := newTestAggregator(t, StrategyRing, 2)
	a.MarkDegraded(constants.SignalLuminosity)
	ingestValid(a, constants.SignalDistance, 10, 30)

	if !a.WindowFull() {
		t.Error("WindowFull() = false; a degraded signal must not block the survivors")
	}
	if got := a.Reduce()[constants.SignalLuminosity]; got != 0 {
		t.Errorf("degraded signal mean = %v, want 0", got)
	}
}

func TestRingWindow_OverwritesOldestWhenFull(t *testing.T) {
	a := newTestAggregator(t, StrategyRing, 3)
	// Six samples through a 3-slot ring: only the last three remain.
	ingestValid(a, constants.SignalDistance, 100, 100, 100, 10, 20, 30)

	got := a.Reduce()[constants.SignalDistance]
	if math.Abs(got-20) > tolerance {
		t.Errorf("mean = %v, want 20 (the three most recent samples)", got)
	}
}

func TestRunningWindow_BoundedAtCapacity(t *testing.T) {
	a := newTestAggregator(t, StrategyRunning, 3)
	ingestValid(a, constants.SignalDistance, 10, 20, 30)
	// Past capacity the window is due for reduction; extras must not skew
	// the mean over more than N samples.
	ingestValid(a, constants.SignalDistance, 1000)

	got := a.Reduce()[constants.SignalDistance]
	if math.Abs(got-20) > tolerance {
		t.Errorf("mean = %v, want 20", got)
	}
}

func TestNew_RejectsBadArguments(t *testing.T) {
	if _, err := New(StrategyRing, 0, constants.TrackedSignals); err == nil {
		t.Error("New with zero size: want error, got nil")
	}
	if _, err := New(Strategy("median"), 5, constants.TrackedSignals); err == nil {
		t.Error("New with unknown strategy: want error, got nil")
	}
}
