// Package timesync is the wall-clock collaborator: one query returning epoch
// seconds, or "unavailable" while the clock has not been set.
package timesync

import "time"

// Source answers the current epoch time. ok is false while wall-clock time is
// not trustworthy; callers then omit the timestamp rather than reporting a
// bogus one.
type Source interface {
	Epoch() (epochSec int64, ok bool)
}

// earliestPlausible guards against a node without an RTC reporting seconds
// since boot as seconds since 1970.
var earliestPlausible = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// SystemClock reads the OS clock, which network provisioning is responsible
// for syncing.
type SystemClock struct{}

func (SystemClock) Epoch() (int64, bool) {
	now := time.Now()
	if now.Before(earliestPlausible) {
		return 0, false
	}
	return now.Unix(), true
}
