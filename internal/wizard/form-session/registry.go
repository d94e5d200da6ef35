// internal/wizard/form-session/registry.go
package formsession

import (
	"context"
	"sync"
	"time"

	apperrors "grant-portal/internal/common/errors"
	"grant-portal/internal/common/logger"
	"grant-portal/internal/common/metrics"
	stepdefinitions "grant-portal/internal/wizard/step-definitions"

	"github.com/google/uuid"
)

// Registry holds the live form sessions keyed by id.
type Registry struct {
	deps *deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(cfg *Config, validator Validator, steps *stepdefinitions.Table, pipeline Pipeline, log logger.Logger) *Registry {
	if cfg == nil {
		cfg = LoadConfig()
	}
	return &Registry{
		deps: &deps{
			config:    cfg.withDefaults(),
			validator: validator,
			steps:     steps,
			pipeline:  pipeline,
			logger:    log.WithFields(map[string]interface{}{"component": "form-session"}),
		},
		sessions: make(map[string]*Session),
	}
}

// OnComplete sets the callback run when a session reaches submitted. Set it
// before creating sessions.
func (r *Registry) OnComplete(fn func(Completion)) {
	r.deps.onComplete = fn
}

// Create starts a fresh session with default values on the first step.
func (r *Registry) Create() *Session {
	s := newSession(uuid.NewString(), r.deps)

	r.mu.Lock()
	r.sessions[s.id] = s
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.SessionsCreated.Inc()
	metrics.SessionsActive.Set(float64(n))
	r.deps.logger.Debug("session created", map[string]interface{}{"sessionId": s.id})
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	return s, nil
}

// Discard drops a session and its values. A submission already in flight
// still completes.
func (r *Registry) Discard(id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return apperrors.NewSessionNotFoundError(id)
	}
	metrics.SessionsActive.Set(float64(n))
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions untouched for longer than the TTL. Sessions with a
// submission in flight are kept.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.deps.config.SessionTTL)

	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		touched, sweepable := s.idleSince()
		if sweepable && touched.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if removed > 0 {
		metrics.SessionsActive.Set(float64(n))
		r.deps.logger.Info("expired sessions swept", map[string]interface{}{
			"removed":   removed,
			"remaining": n,
		})
	}
	return removed
}

// Run sweeps expired sessions every SweepInterval until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.deps.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(r.deps.config.Now())
		}
	}
}
