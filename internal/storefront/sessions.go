package storefront

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"example.com/storefront/internal/landing"
)

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "storefront_sessions_active",
	Help: "Mounted page sessions",
})

// Session is one visitor's mounted page.
type Session struct {
	ID        string
	Instance  *landing.Instance
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen is the time of the last request that used the session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Registry owns every mounted session. Removing a session closes its
// instance, which cancels all of its section goroutines.
type Registry struct {
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(ttl time.Duration, now func() time.Time, logger *slog.Logger) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		ttl:      ttl,
		now:      now,
		logger:   logger.With("component", "storefront.sessions"),
		sessions: make(map[string]*Session),
	}
}

// Add registers inst under a new session id.
func (r *Registry) Add(inst *landing.Instance) *Session {
	now := r.now()
	s := &Session{ID: uuid.NewString(), Instance: inst, CreatedAt: now, lastSeen: now}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	activeSessions.Inc()
	r.logger.Debug("session mounted", "session_id", s.ID, "slug", inst.Slug())
	return s
}

// Get returns a live session and marks it as used.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Delete unmounts a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	r.close(s, "deleted")
	return true
}

// Len is the number of mounted sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reap unmounts sessions idle for longer than the ttl and returns how many
// were closed.
func (r *Registry) Reap() int {
	cutoff := r.now().Add(-r.ttl)
	var idle []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()
	for _, s := range idle {
		r.close(s, "idle")
	}
	return len(idle)
}

// StartReaper sweeps idle sessions every interval until ctx is done.
func (r *Registry) StartReaper(ctx context.Context, interval time.Duration) {
	go func() {
		r.logger.Info("session reaper started", "interval", interval, "ttl", r.ttl)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				r.logger.Info("session reaper stopped", "reason", ctx.Err())
				return
			case <-ticker.C:
				if n := r.Reap(); n > 0 {
					r.logger.Info("reaped idle sessions", "count", n, "remaining", r.Len())
				}
			}
		}
	}()
}

// CloseAll unmounts every session, used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	var wg sync.WaitGroup
	for _, s := range all {
		wg.Go(func() { r.close(s, "shutdown") })
	}
	wg.Wait()
}

func (r *Registry) close(s *Session, reason string) {
	s.Instance.Close()
	activeSessions.Dec()
	r.logger.Debug("session closed", "session_id", s.ID, "reason", reason)
}
