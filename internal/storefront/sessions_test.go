package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/storefront/internal/landing"
	"example.com/storefront/internal/logging"
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

func emptyInstance(slug string) *landing.Instance {
	page := landing.DecodePage(slug, []byte(`[{"id":"s","type":"spacer","order":0,"settings":{}}]`), nil)
	return landing.Mount(context.Background(), page, landing.MountOptions{Logger: logging.Discard()})
}

func TestReapClosesIdleSessions(t *testing.T) {
	clock := &fakeClock{now: fixedNow()}
	registry := NewRegistry(10*time.Minute, clock.Now, logging.Discard())

	idle := registry.Add(emptyInstance("idle"))
	busy := registry.Add(emptyInstance("busy"))

	clock.Advance(6 * time.Minute)
	_, ok := registry.Get(busy.ID)
	require.True(t, ok)
	clock.Advance(6 * time.Minute)

	assert.Equal(t, 1, registry.Reap())
	assert.Error(t, idle.Instance.Context().Err(), "reaped sessions are unmounted")
	assert.NoError(t, busy.Instance.Context().Err())

	_, ok = registry.Get(idle.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, registry.Len())

	registry.CloseAll()
	assert.Error(t, busy.Instance.Context().Err())
	assert.Zero(t, registry.Len())
}

func TestStartReaperStopsWithContext(t *testing.T) {
	clock := &fakeClock{now: fixedNow()}
	registry := NewRegistry(time.Minute, clock.Now, logging.Discard())
	s := registry.Add(emptyInstance("demo"))
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	registry.StartReaper(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return registry.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Error(t, s.Instance.Context().Err())
}
