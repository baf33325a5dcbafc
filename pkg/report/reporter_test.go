package report

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"environmental-node/agent/pkg/alert"
)

type fakeLink struct{ up bool }

func (f fakeLink) Connected() bool { return f.up }

func testRecord() *Record {
	rec := NewRecord("node-7", 43.0, 8.8)
	rec.Alerts = &alert.Flags{Proximity: true, Dark: true}
	ts := int64(1756000000)
	rec.EpochSec = &ts
	return rec
}

func TestSend_DeliveredOn2xx(t *testing.T) {
	var gotBody []byte
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeader = r.Header.Clone()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	rep := NewReporter(srv.URL, "secret", TransportPost, fakeLink{up: true}, 2*time.Second)
	if got := rep.Send(testRecord()); got != OutcomeDelivered {
		t.Fatalf("Send() = %s, want %s", got, OutcomeDelivered)
	}

	if gotHeader.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotHeader.Get("Content-Type"))
	}
	if gotHeader.Get("X-Api-Key") != "secret" {
		t.Errorf("X-Api-Key = %q, want the static credential", gotHeader.Get("X-Api-Key"))
	}

	var payload map[string]any
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("body is not JSON: %v\n%s", err, gotBody)
	}
	want := map[string]any{
		"device":      "node-7",
		"distance_cm": 43.0,
		"light_lx":    8.8,
		"timestamp":   float64(1756000000),
		"alert_near":  true,
		"alert_dark":  true,
	}
	for k, v := range want {
		if payload[k] != v {
			t.Errorf("payload[%q] = %v, want %v", k, payload[k], v)
		}
	}
}

func TestSend_FailedOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rep := NewReporter(srv.URL, "", TransportPost, fakeLink{up: true}, 2*time.Second)
	if got := rep.Send(testRecord()); got != OutcomeFailed {
		t.Errorf("Send() = %s, want %s", got, OutcomeFailed)
	}
}

func TestSend_FailedOnTransportError(t *testing.T) {
	// A closed server gives a connection refusal.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	rep := NewReporter(srv.URL, "", TransportPost, fakeLink{up: true}, time.Second)
	if got := rep.Send(testRecord()); got != OutcomeFailed {
		t.Errorf("Send() = %s, want %s", got, OutcomeFailed)
	}
}

func TestSend_SkippedWhileOffline(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
	}))
	defer srv.Close()

	rep := NewReporter(srv.URL, "", TransportPost, fakeLink{up: false}, time.Second)
	if got := rep.Send(testRecord()); got != OutcomeSkipped {
		t.Fatalf("Send() = %s, want %s", got, OutcomeSkipped)
	}
	if attempts != 0 {
		t.Errorf("dispatch attempts = %d while offline, want 0", attempts)
	}
}

func TestSend_GetVariantEncodesQuery(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		gotQuery = r.URL.Query()
	}))
	defer srv.Close()

	rep := NewReporter(srv.URL, "", TransportGet, fakeLink{up: true}, 2*time.Second)
	if got := rep.Send(testRecord()); got != OutcomeDelivered {
		t.Fatalf("Send() = %s, want %s", got, OutcomeDelivered)
	}

	want := map[string]string{
		"device":      "node-7",
		"distance_cm": "43.00",
		"light_lx":    "8.80",
		"timestamp":   "1756000000",
		"alert_near":  "true",
		"alert_dark":  "true",
	}
	for k, v := range want {
		if len(gotQuery[k]) != 1 || gotQuery[k][0] != v {
			t.Errorf("query[%q] = %v, want %q", k, gotQuery[k], v)
		}
	}
}
