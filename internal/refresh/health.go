package refresh

import (
	"sync"
	"time"
)

// retryCooldown is how long an unhealthy streaming connection must wait after
// one reconnect attempt begins before another is allowed.
const retryCooldown = 30 * time.Second

// connHealth tracks one streaming connection's failure/retry state so a
// dead seed doesn't get hammered with reconnect attempts: at most one retry
// in flight, and only after the cooldown has passed since the previous retry
// began. The first retry after a failure is not held back by the cooldown.
type connHealth struct {
	mu            sync.Mutex
	healthy       bool
	lastRetryTime time.Time
	activeRetry   bool
}

func newConnHealth() *connHealth {
	return &connHealth{healthy: true}
}

func (h *connHealth) isHealthy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.healthy
}

func (h *connHealth) markFailure() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.healthy = false
}

func (h *connHealth) markSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.healthy = true
	h.activeRetry = false
}

// beginRetry reports whether the caller may attempt a reconnect now. When
// healthy, retries are always allowed (there's nothing to cool down from).
// When unhealthy, at most one retry may be in flight, and only once
// retryCooldown has elapsed since it last began.
func (h *connHealth) beginRetry() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.healthy {
		return true
	}
	if h.activeRetry {
		return false
	}
	if time.Since(h.lastRetryTime) < retryCooldown {
		return false
	}
	h.activeRetry = true
	h.lastRetryTime = time.Now()
	return true
}

// endRetry clears the in-flight flag regardless of outcome so a failed
// retry doesn't permanently block future ones.
func (h *connHealth) endRetry() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.activeRetry = false
}
