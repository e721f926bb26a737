package terminal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hellocms/blackforest/internal/logger"
)

var ErrSessionNotFound = errors.New("terminal session not found")

// Registry holds the live terminals of this process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Terminal
	idleTTL  time.Duration
	now      func() time.Time
}

func NewRegistry(idleTTL time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Terminal),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

func (r *Registry) Add(t *Terminal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[t.ID()] = t
}

// Get returns the terminal id of branchID. A terminal of another branch is
// reported as not found.
func (r *Registry) Get(branchID, id string) (*Terminal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.sessions[id]
	if !ok || t.BranchID() != branchID {
		return nil, ErrSessionNotFound
	}
	return t, nil
}

func (r *Registry) Remove(branchID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.sessions[id]
	if !ok || t.BranchID() != branchID {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Evict drops terminals idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Evict() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, t := range r.sessions {
		if t.LastUsed().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run evicts idle terminals every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	log := logger.FromContext(ctx).WithComponent("registry")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				log.Infow("evicted idle terminals", "count", n, "remaining", r.Len())
			}
		}
	}
}
