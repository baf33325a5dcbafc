// Package connectivity is the link-management collaborator: it answers the
// single question "is the uplink usable right now" from a cached background
// probe, so the sampling loop never blocks on a network check.
package connectivity

import (
	"sync"
	"time"

	"github.com/go-ping/ping"
	"k8s.io/klog/v2"
)

type linkState struct {
	lossPct   float64
	timestamp time.Time
}

// LinkProbe pings the probe host on a background ticker and caches the
// result. A stale cache reads as offline: the reporter would rather skip a
// send than block the cycle discovering a dead link.
type LinkProbe struct {
	host     string
	cacheTTL time.Duration

	cacheMu sync.RWMutex
	cache   linkState

	stopCh <-chan struct{}
}

func NewLinkProbe(host string, interval, ttl time.Duration, stopCh <-chan struct{}) *LinkProbe {
	p := &LinkProbe{
		host:     host,
		cacheTTL: ttl,
		cache:    linkState{lossPct: 100},
		stopCh:   stopCh,
	}

	// Single initial probe so the first window does not report offline
	// just because the ticker has not fired yet.
	p.refresh()

	go p.probeLoop(interval)
	return p
}

func (p *LinkProbe) probeLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.refresh()
		}
	}
}

func (p *LinkProbe) refresh() {
	pinger, err := ping.NewPinger(p.host)
	if err != nil {
		klog.Warningf("connectivity: NewPinger failed: %v", err)
		return
	}
	// Unprivileged mode falls back to UDP ping where raw ICMP needs
	// CAP_NET_RAW.
	pinger.SetPrivileged(false)
	pinger.Count = 3
	pinger.Timeout = 3 * time.Second
	pinger.Interval = 300 * time.Millisecond

	if err := pinger.Run(); err != nil {
		klog.Warningf("connectivity: probe run failed: %v", err)
		return
	}

	stats := pinger.Statistics()
	p.cacheMu.Lock()
	p.cache = linkState{
		lossPct:   stats.PacketLoss,
		timestamp: time.Now(),
	}
	p.cacheMu.Unlock()

	klog.V(4).Infof("connectivity: probe to %s: loss=%.0f%%", p.host, stats.PacketLoss)
}

// Connected reports whether the uplink is usable. Total loss or a cache older
// than the TTL both count as offline.
func (p *LinkProbe) Connected() bool {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	if p.cache.timestamp.IsZero() {
		return false
	}
	if time.Since(p.cache.timestamp) > p.cacheTTL {
		klog.Warning("connectivity: probe cache stale, assuming offline")
		return false
	}
	return p.cache.lossPct < 100
}
