package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/museum-reservation/internal/session"
	"github.com/iliyamo/museum-reservation/internal/utils"
)

// Accounts configures the session manager of each new visit.  The demo
// password hash is computed once and shared.
type Accounts struct {
	DemoEmail  string
	DemoHash   string
	BcryptCost int
}

type entry struct {
	visit    *Visit
	lastSeen time.Time
}

// Registry maps visit ids to live visits.
type Registry struct {
	deps     Deps
	accounts Accounts
	idle     time.Duration

	mu     sync.Mutex
	visits map[string]*entry
}

// NewRegistry returns an empty registry.  Visits unused for longer than
// idle are dropped by Sweep; idle <= 0 keeps them forever.
func NewRegistry(deps Deps, accounts Accounts, idle time.Duration) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Registry{deps: deps, accounts: accounts, idle: idle, visits: make(map[string]*entry)}
}

// Create starts a new anonymous visit with a random id.
func (r *Registry) Create() (*Visit, error) {
	id, err := utils.NewVisitID()
	if err != nil {
		return nil, err
	}
	sm := session.NewManagerWithHash(r.accounts.DemoEmail, r.accounts.DemoHash, r.accounts.BcryptCost)
	v := NewVisit(id, sm, r.deps)
	r.mu.Lock()
	r.visits[id] = &entry{visit: v, lastSeen: r.deps.Now()}
	r.mu.Unlock()
	return v, nil
}

// Get returns the visit for id and marks it as used.
func (r *Registry) Get(id string) (*Visit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.visits[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.deps.Now()
	return e.visit, true
}

// Remove forgets a visit and clears its hand-off slot.  A visit with a
// payment in flight is kept and Remove reports false.
func (r *Registry) Remove(ctx context.Context, id string) bool {
	r.mu.Lock()
	e, ok := r.visits[id]
	if !ok || e.visit.processor.InFlight() {
		r.mu.Unlock()
		return false
	}
	delete(r.visits, id)
	r.mu.Unlock()
	if _, err := e.visit.Logout(ctx); err != nil {
		r.deps.Logger.WithError(err).WithField("visit", id).Warn("remove visit")
	}
	return true
}

// Len is the number of live visits.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visits)
}

// Sweep removes visits idle since before now minus the idle window and
// returns how many were removed.  Visits with a payment in flight are
// kept.
func (r *Registry) Sweep(ctx context.Context, now time.Time) int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idle)
	var stale []*Visit
	r.mu.Lock()
	for id, e := range r.visits {
		if e.lastSeen.Before(cutoff) && !e.visit.processor.InFlight() {
			stale = append(stale, e.visit)
			delete(r.visits, id)
		}
	}
	r.mu.Unlock()
	for _, v := range stale {
		if _, err := v.Logout(ctx); err != nil {
			r.deps.Logger.WithError(err).WithField("visit", v.ID()).Warn("sweep visit")
		}
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			if n := r.Sweep(ctx, now); n > 0 {
				r.deps.Logger.WithField("removed", n).Info("swept idle visits")
			}
		}
	}
}
