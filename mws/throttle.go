package mws

import (
	"context"
	"strings"
	"sync"
	"time"
)

// ThrottleGroup identifies a family of operations that share a request
// quota on Amazon's side. The client spaces requests within a group so a
// well-behaved caller never trips the server-side limiter.
type ThrottleGroup string

// Sub derives a child group that tracks its own request timestamps but
// inherits the parent's spacing unless overridden. GetServiceStatus uses
// this: each API section has its own quota, all restored at the same
// rate.
func (g ThrottleGroup) Sub(key string) ThrottleGroup {
	return g + ":" + ThrottleGroup(key)
}

const (
	GroupDefault ThrottleGroup = "default"
	GroupStatus  ThrottleGroup = "status"
	GroupInbound ThrottleGroup = "inbound"
	GroupOrders  ThrottleGroup = "orders"
	GroupFeeds   ThrottleGroup = "feeds"
	GroupSellers ThrottleGroup = "sellers"
)

// StatusRestorePeriod is the spacing for GetServiceStatus calls. Amazon
// restores that quota once every five minutes, much slower than any other
// operation family.
const StatusRestorePeriod = 5 * time.Minute

// defaultSpacing maps each group to its minimum request spacing.
var defaultSpacing = map[ThrottleGroup]time.Duration{
	GroupDefault: 2 * time.Second,
	GroupStatus:  StatusRestorePeriod,
	GroupInbound: 2 * time.Second,
	GroupOrders:  time.Minute,
	GroupFeeds:   45 * time.Second,
	GroupSellers: time.Minute,
}

// Throttler tracks the timestamp of the last request per group and makes
// callers wait out the remaining spacing. Safe for concurrent use.
type Throttler struct {
	mu      sync.Mutex
	last    map[ThrottleGroup]time.Time
	spacing map[ThrottleGroup]time.Duration

	// now is replaceable for tests
	now func() time.Time
}

// NewThrottler creates a throttler with the default per-group spacing.
func NewThrottler() *Throttler {
	spacing := make(map[ThrottleGroup]time.Duration, len(defaultSpacing))
	for g, d := range defaultSpacing {
		spacing[g] = d
	}
	return &Throttler{
		last:    make(map[ThrottleGroup]time.Time),
		spacing: spacing,
		now:     time.Now,
	}
}

// SetSpacing overrides the minimum spacing for a group.
func (t *Throttler) SetSpacing(group ThrottleGroup, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spacing[group] = d
}

// Ready reports whether a request in the group may be sent immediately.
func (t *Throttler) Ready(group ThrottleGroup) bool {
	return t.remaining(group) <= 0
}

// Remaining returns how long until the next request in the group is
// allowed.
func (t *Throttler) Remaining(group ThrottleGroup) time.Duration {
	d := t.remaining(group)
	if d < 0 {
		return 0
	}
	return d
}

func (t *Throttler) remaining(group ThrottleGroup) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.last[group]
	if !ok {
		return 0
	}
	return t.spacingLocked(group) - t.now().Sub(last)
}

// spacingLocked resolves a group's spacing, walking up to the parent
// group for Sub keys and to GroupDefault last. Caller holds mu.
func (t *Throttler) spacingLocked(group ThrottleGroup) time.Duration {
	if d, ok := t.spacing[group]; ok {
		return d
	}
	if i := strings.IndexByte(string(group), ':'); i >= 0 {
		if d, ok := t.spacing[group[:i]]; ok {
			return d
		}
	}
	return t.spacing[GroupDefault]
}

// Wait blocks until the group's spacing has elapsed, then records the
// request. Returns early with the context's error on cancellation.
// Concurrent callers on one group are admitted one spacing apart: the
// slot check and the timestamp record happen under the same lock, and a
// caller that loses the race sleeps out the new remainder.
func (t *Throttler) Wait(ctx context.Context, group ThrottleGroup) error {
	for {
		t.mu.Lock()
		now := t.now()
		var d time.Duration
		if last, ok := t.last[group]; ok {
			d = t.spacingLocked(group) - now.Sub(last)
		}
		if d <= 0 {
			t.last[group] = now
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
