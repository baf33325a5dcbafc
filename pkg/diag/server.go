// Package diag serves the node's local diagnostics surface: a health summary
// of the last cycle and the Prometheus metrics. It is read-only and touches
// the pipeline only through an immutable snapshot.
package diag

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"k8s.io/klog/v2"

	"environmental-node/agent/pkg/controller"
)

type Server struct {
	addr    string
	limiter *rate.Limiter
	status  func() controller.Snapshot
}

func NewServer(addr string, limiter *rate.Limiter, status func() controller.Snapshot) *Server {
	return &Server{addr: addr, limiter: limiter, status: status}
}

// Run serves until the process exits. Diagnostics are best-effort: a failure
// to bind logs an error and leaves the pipeline running.
func (s *Server) Run() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.limited(promhttp.Handler()))
	mux.Handle("/healthz", s.limited(http.HandlerFunc(s.handleHealthz)))

	klog.Infof("diagnostics listening on %s", s.addr)
	if err := http.ListenAndServe(s.addr, mux); err != nil {
		klog.Errorf("diagnostics server stopped: %v", err)
	}
}

func (s *Server) limited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			klog.Warning("diagnostics rate limit exceeded")
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "invalid method", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status()); err != nil {
		klog.Errorf("failed to encode health snapshot: %v", err)
	}
}
