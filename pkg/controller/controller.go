// Package controller runs the sampling-and-reporting cycle: one cooperative
// control flow that owns the scheduler, the adapters, the aggregation window,
// and the reporter for the process lifetime.
package controller

import (
	"sync"
	"time"

	"k8s.io/klog/v2"

	"environmental-node/agent/pkg/aggregate"
	"environmental-node/agent/pkg/alert"
	"environmental-node/agent/pkg/constants"
	"environmental-node/agent/pkg/report"
	"environmental-node/agent/pkg/schedule"
	"environmental-node/agent/pkg/sensor"
	"environmental-node/agent/pkg/timesync"
)

// State is where the cycle machine currently is. There is no terminal state;
// the machine runs until the process stops.
type State string

const (
	StateIdle       State = "idle"
	StateSampling   State = "sampling"
	StateWindowFull State = "window_full"
	StateReporting  State = "reporting"
)

// Options carries the static pieces the controller is wired with.
type Options struct {
	Gate       *schedule.IntervalGate
	Adapters   []sensor.Adapter
	Aggregator *aggregate.Aggregator
	Thresholds alert.Thresholds
	Reporter   *report.Reporter
	Clock      timesync.Source

	DeviceID         string
	WindowSize       int
	IncludeAlerts    bool
	IncludeTimestamp bool
	// ReportPartial reports whatever the window holds once WindowSize
	// fires have passed without it filling. Off means wait indefinitely.
	ReportPartial bool
}

// Snapshot is the read-only cycle summary served by the diagnostics endpoint.
type Snapshot struct {
	State        State          `json:"state"`
	ReportsSent  uint64         `json:"reports_sent"`
	LastOutcome  report.Outcome `json:"last_outcome,omitempty"`
	LastReportAt *int64         `json:"last_report_at,omitempty"`
}

type Controller struct {
	opts Options

	state           State
	firesSinceReset int

	snapMu sync.Mutex
	snap   Snapshot
}

func New(opts Options) *Controller {
	c := &Controller{opts: opts, state: StateIdle}
	c.snap = Snapshot{State: StateIdle}
	return c
}

// Run drives the cycle until stopCh closes. The poll pass is cheap: the gate
// answers "not due" without blocking, so the loop spends its life sleeping on
// the ticker.
func (c *Controller) Run(pollInterval time.Duration, stopCh <-chan struct{}) {
	klog.Infof("starting sampling pipeline with %d adapters", len(c.opts.Adapters))

	start := time.Now()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			klog.Info("shutting down sampling pipeline")
			return
		case <-ticker.C:
			// The monotonic tick counter deliberately wraps at
			// 2^32 ms (~49 days); the gate's modular arithmetic
			// handles the boundary.
			now := uint32(time.Since(start) / time.Millisecond)
			c.Tick(now)
		}
	}
}

// Tick is one pass of the cycle machine. Exposed so tests can drive the
// pipeline with synthetic tick counters.
func (c *Controller) Tick(now uint32) {
	if !c.opts.Gate.Due(now) {
		return
	}
	c.opts.Gate.MarkFired(now)

	c.setState(StateSampling)
	c.firesSinceReset++

	for _, a := range c.opts.Adapters {
		r := a.Sample()
		if r.Status == sensor.StatusDeviceAbsent {
			// Permanent for the process lifetime: stop waiting on
			// this signal so the others keep reporting.
			c.opts.Aggregator.MarkDegraded(r.Signal)
		}
		// Ingest drops, logs, and counts every invalid reading,
		// device-absent included.
		c.opts.Aggregator.Ingest(r)
	}

	full := c.opts.Aggregator.WindowFull()
	if !full {
		if !c.opts.ReportPartial || c.firesSinceReset < c.opts.WindowSize {
			return
		}
		if !c.opts.Aggregator.HasSamples() {
			// Nothing to report yet; restart the partial countdown.
			c.firesSinceReset = 0
			return
		}
		klog.Warningf("window incomplete after %d fires, reporting partial means", c.firesSinceReset)
	}

	// A partial countdown expiring counts as window completion.
	c.setState(StateWindowFull)
	c.report(full)
}

// report runs the WINDOW_FULL -> REPORTING -> SAMPLING leg: reduce, evaluate,
// dispatch, reset. The window resets whatever the dispatch outcome was; a
// failed report loses its data by design.
func (c *Controller) report(full bool) {
	c.setState(StateReporting)

	means := c.opts.Aggregator.Reduce()
	meanDistance := means[constants.SignalDistance]
	meanLux := means[constants.SignalLuminosity]

	rec := report.NewRecord(c.opts.DeviceID, meanDistance, meanLux)
	rec.Partial = !full

	flags := alert.Evaluate(meanDistance, meanLux, c.opts.Thresholds)
	// A degraded or empty signal reduces to the placeholder 0, which would
	// otherwise read as a standing alert; no data means no alarm.
	if !c.opts.Aggregator.HasData(constants.SignalDistance) {
		flags.Proximity = false
	}
	if !c.opts.Aggregator.HasData(constants.SignalLuminosity) {
		flags.Dark = false
	}
	if c.opts.IncludeAlerts {
		rec.Alerts = &flags
	}
	if c.opts.IncludeTimestamp {
		if ts, ok := c.opts.Clock.Epoch(); ok {
			rec.EpochSec = &ts
		} else {
			klog.V(4).Info("wall clock unavailable, omitting report timestamp")
		}
	}

	klog.V(4).Infof("window complete: distance=%.2fcm lux=%.2flx near=%v dark=%v partial=%v",
		meanDistance, meanLux, flags.Proximity, flags.Dark, rec.Partial)

	outcome := c.opts.Reporter.Send(rec)
	cyclesTotal.WithLabelValues(string(outcome)).Inc()

	c.opts.Aggregator.Reset()
	c.firesSinceReset = 0

	c.snapMu.Lock()
	c.snap.ReportsSent++
	c.snap.LastOutcome = outcome
	if ts, ok := c.opts.Clock.Epoch(); ok {
		c.snap.LastReportAt = &ts
	}
	c.snapMu.Unlock()

	c.setState(StateSampling)
}

func (c *Controller) setState(s State) {
	c.state = s
	c.snapMu.Lock()
	c.snap.State = s
	c.snapMu.Unlock()
}

// Status returns the current cycle summary for the diagnostics endpoint.
func (c *Controller) Status() Snapshot {
	c.snapMu.Lock()
	defer c.snapMu.Unlock()
	return c.snap
}
