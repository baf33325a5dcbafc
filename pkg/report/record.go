package report

import (
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/url"

	"github.com/google/uuid"

	"environmental-node/agent/pkg/alert"
)

// Record is the immutable snapshot of one completed window. It is built once
// by the cycle controller, handed to the reporter, and discarded after the
// single dispatch attempt whatever the outcome.
type Record struct {
	ID               string
	DeviceID         string
	MeanDistanceCm   float64
	MeanLuminosityLx float64

	// Optional per deployment variant.
	Alerts   *alert.Flags
	EpochSec *int64
	Partial  bool
}

// NewRecord tags the snapshot with a fresh ID used to correlate dispatch logs.
func NewRecord(deviceID string, meanDistanceCm, meanLuminosityLx float64) *Record {
	return &Record{
		ID:               uuid.NewString(),
		DeviceID:         deviceID,
		MeanDistanceCm:   meanDistanceCm,
		MeanLuminosityLx: meanLuminosityLx,
	}
}

// round2 fixes a mean to the wire precision of 2 decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// wireRecord is the JSON body shape. Means are rendered through json.Number
// so the payload carries fixed 2-decimal numerics, not quoted strings.
type wireRecord struct {
	Device     string      `json:"device"`
	DistanceCm json.Number `json:"distance_cm"`
	LightLx    json.Number `json:"light_lx"`
	Timestamp  *int64      `json:"timestamp,omitempty"`
	AlertNear  *bool       `json:"alert_near,omitempty"`
	AlertDark  *bool       `json:"alert_dark,omitempty"`
}

// MarshalJSON renders the deployment payload.
func (r *Record) MarshalJSON() ([]byte, error) {
	w := wireRecord{
		Device:     r.DeviceID,
		DistanceCm: json.Number(fmt.Sprintf("%.2f", round2(r.MeanDistanceCm))),
		LightLx:    json.Number(fmt.Sprintf("%.2f", round2(r.MeanLuminosityLx))),
		Timestamp:  r.EpochSec,
	}
	if r.Alerts != nil {
		w.AlertNear = &r.Alerts.Proximity
		w.AlertDark = &r.Alerts.Dark
	}
	return json.Marshal(w)
}

// QueryValues encodes the record as GET query parameters, the alternate
// deployment variant of the same payload.
func (r *Record) QueryValues() url.Values {
	v := url.Values{}
	v.Set("device", r.DeviceID)
	v.Set("distance_cm", fmt.Sprintf("%.2f", round2(r.MeanDistanceCm)))
	v.Set("light_lx", fmt.Sprintf("%.2f", round2(r.MeanLuminosityLx)))
	if r.EpochSec != nil {
		v.Set("timestamp", fmt.Sprintf("%d", *r.EpochSec))
	}
	if r.Alerts != nil {
		v.Set("alert_near", fmt.Sprintf("%t", r.Alerts.Proximity))
		v.Set("alert_dark", fmt.Sprintf("%t", r.Alerts.Dark))
	}
	return v
}

// HardwareAddr returns the MAC of the first non-loopback interface, used by
// deployments that identify nodes by hardware address instead of a configured
// device ID.
func HardwareAddr() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface.HardwareAddr.String(), nil
	}
	return "", fmt.Errorf("no non-loopback interface with a hardware address")
}
