package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"k8s.io/klog/v2"
)

// Transport selects the deployment's wire variant; fixed per deployment,
// never negotiated at runtime.
type Transport string

const (
	// TransportPost sends the record as a JSON body POST.
	TransportPost Transport = "post"
	// TransportGet encodes the record as query parameters on a GET.
	TransportGet Transport = "get"
)

// Outcome classifies one dispatch attempt.
type Outcome string

const (
	// OutcomeDelivered means the endpoint answered with a 2xx status.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeFailed means a non-2xx status or a transport-level error.
	// Purely informational: the record is already gone, nothing retries.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means no connectivity at dispatch time; the send was
	// a deliberate no-op, not a failure.
	OutcomeSkipped Outcome = "skipped"
)

// Connectivity is the external link-management collaborator, reduced to the
// one question the reporter asks.
type Connectivity interface {
	Connected() bool
}

// Reporter performs exactly one dispatch attempt per completed window.
// No retry, no backoff, no outbox: on a sensor node the power and bandwidth
// cost of retrying outweighs one lost window of means.
type Reporter struct {
	endpoint  string
	apiKey    string
	transport Transport
	conn      Connectivity
	client    *http.Client
}

func NewReporter(endpoint, apiKey string, transport Transport, conn Connectivity, timeout time.Duration) *Reporter {
	return &Reporter{
		endpoint:  endpoint,
		apiKey:    apiKey,
		transport: transport,
		conn:      conn,
		client:    &http.Client{Timeout: timeout},
	}
}

// Send dispatches one record and reports how it went. Every path logs; no
// path returns an error, because no dispatch outcome is actionable by the
// caller.
func (r *Reporter) Send(rec *Record) Outcome {
	if !r.conn.Connected() {
		klog.Warningf("report %s: send skipped: offline", rec.ID)
		dispatchesTotal.WithLabelValues(string(OutcomeSkipped)).Inc()
		return OutcomeSkipped
	}

	start := time.Now()
	status, body, err := r.dispatch(rec)
	dispatchLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		klog.Errorf("report %s: dispatch failed: %v", rec.ID, err)
		dispatchesTotal.WithLabelValues(string(OutcomeFailed)).Inc()
		return OutcomeFailed
	}
	if status < 200 || status > 299 {
		klog.Errorf("report %s: dispatch failed: status %d", rec.ID, status)
		dispatchesTotal.WithLabelValues(string(OutcomeFailed)).Inc()
		return OutcomeFailed
	}

	klog.Infof("report %s: delivered (status %d)", rec.ID, status)
	if len(body) > 0 {
		// Logged for operators; never parsed for control decisions.
		klog.V(4).Infof("report %s: response body: %s", rec.ID, body)
	}
	dispatchesTotal.WithLabelValues(string(OutcomeDelivered)).Inc()
	return OutcomeDelivered
}

func (r *Reporter) dispatch(rec *Record) (int, []byte, error) {
	var req *http.Request
	var err error

	switch r.transport {
	case TransportGet:
		req, err = http.NewRequest(http.MethodGet, r.endpoint+"?"+rec.QueryValues().Encode(), nil)
	case TransportPost:
		var payload []byte
		payload, err = json.Marshal(rec)
		if err != nil {
			return 0, nil, fmt.Errorf("encode record: %w", err)
		}
		req, err = http.NewRequest(http.MethodPost, r.endpoint, bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	default:
		return 0, nil, fmt.Errorf("unknown transport %q", r.transport)
	}
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	if r.apiKey != "" {
		req.Header.Set("X-Api-Key", r.apiKey)
	}
	req.Header.Set("X-Report-Id", rec.ID)

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, body, nil
}
