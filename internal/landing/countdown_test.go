package landing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRemainingUntil(t *testing.T) {
	now := fixedNow()
	left := 26*time.Hour + 3*time.Minute + 4*time.Second + 500*time.Millisecond
	r := RemainingUntil(now.Add(left), now)
	assert.Equal(t, Remaining{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}, r)
	assert.Equal(t, int64(left/time.Second), r.TotalSeconds())
	assert.Equal(t, "01:02:03:04", r.String())

	past := RemainingUntil(now.Add(-time.Hour), now)
	assert.True(t, past.Zero())
	assert.Equal(t, "00:00:00:00", past.String())
}

func TestRemainingNeverNegative(t *testing.T) {
	now := fixedNow()
	for _, d := range []time.Duration{-48 * time.Hour, -time.Second, 0, time.Second, 90 * time.Minute, 400 * time.Hour} {
		r := RemainingUntil(now.Add(d), now)
		for _, part := range []int{r.Days, r.Hours, r.Minutes, r.Seconds} {
			assert.GreaterOrEqual(t, part, 0)
		}
		assert.Equal(t, max(0, int64(d/time.Second)), r.TotalSeconds())
	}
}

func TestParseEndDate(t *testing.T) {
	got, ok := ParseEndDate("2030-01-01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseEndDate("2030-01-01T00:00:00+06:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2029, 12, 31, 18, 0, 0, 0, time.UTC), got.UTC())

	got, ok = ParseEndDate("2030-01-01T10:30")
	require.True(t, ok)
	assert.Equal(t, time.Local, got.Location())
	assert.Equal(t, 10, got.Hour())

	_, ok = ParseEndDate("next friday")
	assert.False(t, ok)
	_, ok = ParseEndDate("")
	assert.False(t, ok)
}

func TestCountdownRunPublishesUntilZero(t *testing.T) {
	clock := &fakeClock{now: fixedNow()}
	c := NewCountdown(clock.now.Add(3*time.Second), clock.Now)
	assert.Equal(t, Remaining{Seconds: 3}, c.Current())

	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		c.Run(context.Background(), time.Millisecond)
		close(done)
	}()

	clock.Advance(time.Second)
	select {
	case r := <-updates:
		assert.Equal(t, Remaining{Seconds: 2}, r)
	case <-time.After(time.Second):
		t.Fatal("no countdown update")
	}

	clock.Advance(10 * time.Second)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown kept running after reaching zero")
	}
	assert.True(t, c.Current().Zero())
}

func TestCountdownRunStopsOnCancel(t *testing.T) {
	c := NewCountdown(fixedNow().Add(time.Hour), fixedNow)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown ignored cancellation")
	}
	assert.Equal(t, Remaining{Hours: 1}, c.Current())
}

func TestCountdownExpiredReturnsImmediately(t *testing.T) {
	c := NewCountdown(fixedNow().Add(-time.Minute), fixedNow)
	c.Run(context.Background(), time.Hour)
	assert.True(t, c.Current().Zero())
}

func TestCountdownSlowSubscriberStillSeesZero(t *testing.T) {
	clock := &fakeClock{now: fixedNow()}
	c := NewCountdown(clock.now.Add(3*time.Second), clock.Now)
	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		c.Run(context.Background(), time.Millisecond)
		close(done)
	}()

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return c.Current() == Remaining{Seconds: 2} }, time.Second, time.Millisecond)
	clock.Advance(10 * time.Second)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown kept running after reaching zero")
	}

	select {
	case r := <-updates:
		assert.True(t, r.Zero(), "pending value is the latest one")
	default:
		t.Fatal("final value was dropped")
	}
}
