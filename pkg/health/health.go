// Package health serves liveness and readiness probes.
//
// Checks run periodically in the background. A check turns unhealthy after
// FailureThreshold consecutive failures and healthy again after one success,
// so a single slow backend response does not flip readiness.
package health

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

// FailureThreshold is the number of consecutive failures that mark a check
// unhealthy.
const FailureThreshold = 3

// CheckFunc reports the health of a component.
type CheckFunc func(ctx context.Context) error

// Kind selects the probe a check contributes to.
type Kind int

const (
	Liveness Kind = iota
	Readiness
)

type check struct {
	name    string
	kind    Kind
	timeout time.Duration
	fn      CheckFunc

	// fails is owned by the goroutine running the check.
	fails int

	healthy atomic.Bool
	lastErr atomic.Pointer[string]
}

func (c *check) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.fn(ctx); err != nil {
		msg := err.Error()
		c.lastErr.Store(&msg)
		c.fails++
		if c.fails >= FailureThreshold {
			c.healthy.Store(false)
		}
		return
	}
	c.lastErr.Store(nil)
	c.fails = 0
	c.healthy.Store(true)
}

func (c *check) failure() (string, bool) {
	if c.healthy.Load() {
		return "", false
	}
	if msg := c.lastErr.Load(); msg != nil {
		return *msg, true
	}
	return "unhealthy", true
}

// Service holds the registered checks and the manual readiness flag.
type Service struct {
	ready atomic.Bool

	mu     sync.Mutex
	checks []*check
	stop   context.CancelFunc
	wg     sync.WaitGroup
}

// New returns a Service that is not ready until SetReady(true).
func New() *Service {
	return &Service{}
}

// Add registers a check. Checks start healthy.
func (s *Service) Add(kind Kind, name string, timeout time.Duration, fn CheckFunc) {
	c := &check{name: name, kind: kind, timeout: timeout, fn: fn}
	c.healthy.Store(true)

	s.mu.Lock()
	s.checks = append(s.checks, c)
	s.mu.Unlock()
}

// Start runs every check immediately and then at interval until Stop or
// ctx cancellation.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.stop = cancel
	checks := slices.Clone(s.checks)
	s.mu.Unlock()

	for _, c := range checks {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				c.run(ctx)
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}()
	}
}

// Stop cancels the background checks and waits for them to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	s.wg.Wait()
}

// SetReady toggles the manual readiness flag.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the service is marked ready and every readiness
// check passes.
func (s *Service) IsReady() bool {
	return s.ready.Load() && len(s.failures(Readiness)) == 0
}

func (s *Service) failures(kind Kind) map[string]string {
	s.mu.Lock()
	checks := slices.Clone(s.checks)
	s.mu.Unlock()

	out := make(map[string]string)
	for _, c := range checks {
		if c.kind != kind {
			continue
		}
		if msg, failed := c.failure(); failed {
			out[c.name] = msg
		}
	}
	return out
}

// LiveEndpoint serves /livez.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	write(w, s.failures(Liveness))
}

// ReadyEndpoint serves /readyz.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failures := s.failures(Readiness)
	if !s.ready.Load() {
		failures["_readiness"] = "not ready"
	}
	write(w, failures)
}

func write(w http.ResponseWriter, failures map[string]string) {
	status, code := "ok", http.StatusOK
	if len(failures) > 0 {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("status", func(e *jx.Encoder) { e.Str(status) })
		if len(failures) == 0 {
			return
		}
		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		slices.Sort(names)
		e.Field("checks", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for _, name := range names {
					e.Field(name, func(e *jx.Encoder) { e.Str(failures[name]) })
				}
			})
		})
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}
