package cart

import (
	"context"
	"sync"
	"time"
)

// SessionsConfig controls the browsing session registry.
type SessionsConfig struct {
	// IdleTimeout is how long a cart may go untouched before it is evicted.
	IdleTimeout time.Duration

	// OnCreate, if set, is called for every new cart before it is handed out.
	OnCreate func(id string, c *Cart)
}

type session struct {
	cart     *Cart
	lastSeen time.Time
}

// Sessions maps browsing session ids to their carts. Carts live only in
// memory and are discarded when their session goes idle.
type Sessions struct {
	cfg SessionsConfig
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessions creates an empty registry.
func NewSessions(cfg SessionsConfig) *Sessions {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	return &Sessions{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Get returns the cart of session id, creating an empty one on first use.
func (s *Sessions) Get(id string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = now
		return sess.cart
	}

	c := New()
	if s.cfg.OnCreate != nil {
		s.cfg.OnCreate(id, c)
	}
	s.sessions[id] = &session{cart: c, lastSeen: now}
	return c
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict drops sessions idle for longer than IdleTimeout as of now and returns
// how many were removed.
func (s *Sessions) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) >= s.cfg.IdleTimeout {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// StartEviction launches a goroutine that evicts idle sessions every half
// IdleTimeout. It stops when ctx is cancelled; the returned channel is closed
// once it has.
func (s *Sessions) StartEviction(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	interval := s.cfg.IdleTimeout / 2
	if interval <= 0 {
		interval = s.cfg.IdleTimeout
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Evict(now)
			}
		}
	}()
	return done
}
