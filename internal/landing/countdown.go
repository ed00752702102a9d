package landing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// CountdownInterval is how often a running countdown recomputes.
const CountdownInterval = time.Second

// Remaining is the time left until a countdown target.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// RemainingUntil splits max(0, target-now) into whole days, hours, minutes
// and seconds.
func RemainingUntil(target, now time.Time) Remaining {
	left := int64(target.Sub(now) / time.Second)
	if left <= 0 {
		return Remaining{}
	}
	return Remaining{
		Days:    int(left / 86400),
		Hours:   int(left % 86400 / 3600),
		Minutes: int(left % 3600 / 60),
		Seconds: int(left % 60),
	}
}

// TotalSeconds converts back to seconds.
func (r Remaining) TotalSeconds() int64 {
	return int64(r.Days)*86400 + int64(r.Hours)*3600 + int64(r.Minutes)*60 + int64(r.Seconds)
}

// Zero reports whether the countdown has run out.
func (r Remaining) Zero() bool { return r == Remaining{} }

func (r Remaining) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", r.Days, r.Hours, r.Minutes, r.Seconds)
}

var endDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseEndDate parses a countdown target. A bare date is midnight UTC; a
// date-time without an offset is local time.
func ParseEndDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	for _, layout := range endDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Countdown is the ticking state of one countdown section.
type Countdown struct {
	target time.Time
	now    func() time.Time

	mu      sync.RWMutex
	current Remaining
	subs    map[chan Remaining]struct{}
}

// NewCountdown computes the initial value immediately. A nil now uses
// time.Now.
func NewCountdown(target time.Time, now func() time.Time) *Countdown {
	if now == nil {
		now = time.Now
	}
	return &Countdown{
		target:  target,
		now:     now,
		current: RemainingUntil(target, now()),
		subs:    make(map[chan Remaining]struct{}),
	}
}

// Target returns the end time.
func (c *Countdown) Target() time.Time { return c.target }

// Current returns the latest computed value.
func (c *Countdown) Current() Remaining {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Run recomputes the value every interval until ctx is done or the target
// passes. Each subscriber holds at most one pending value, always the
// latest, so a slow reader still sees the final zero.
func (c *Countdown) Run(ctx context.Context, interval time.Duration) {
	if c.Current().Zero() {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r := c.tick(); r.Zero() {
				return
			}
		}
	}
}

func (c *Countdown) tick() Remaining {
	r := RemainingUntil(c.target, c.now())
	c.mu.Lock()
	defer c.mu.Unlock()
	if r == c.current {
		return r
	}
	c.current = r
	for ch := range c.subs {
		select {
		case ch <- r:
		default:
			// slow reader: replace the stale value so the latest one,
			// including the final zero, is always waiting
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- r:
			default:
			}
		}
	}
	return r
}

// Subscribe returns a channel of updates and a func that ends the
// subscription.
func (c *Countdown) Subscribe() (<-chan Remaining, func()) {
	ch := make(chan Remaining, 1)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, ch)
			c.mu.Unlock()
		})
	}
}
