// internal/toast/registry.go
package toast

import (
	"sync"
	"time"

	"interview-portal/internal/events"
)

// DefaultIdleTTL is how long an empty store survives without being asked for.
const DefaultIdleTTL = 5 * time.Minute

// Publisher is satisfied by *events.Hub.
type Publisher interface {
	Publish(topic, evt string)
}

type registryEntry struct {
	store    *Store
	lastUsed time.Time
}

// Registry keeps one Store per client id and mirrors every change onto the
// client's event topic. Stores that stay empty for IdleTTL are swept.
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*registryEntry
	opts    Options
	pub     Publisher
	idle    time.Duration
	now     func() time.Time
	done    chan struct{}
	closeMu sync.Once
}

func NewRegistry(opts Options, pub Publisher) *Registry {
	idle := opts.IdleTTL
	if idle <= 0 {
		idle = DefaultIdleTTL
	}
	now := time.Now
	if opts.Clock != nil {
		now = opts.Clock.Now
	}
	r := &Registry{
		stores: make(map[string]*registryEntry),
		opts:   opts,
		pub:    pub,
		idle:   idle,
		now:    now,
		done:   make(chan struct{}),
	}
	go r.janitor()
	return r
}

// For returns the client's store, creating it on first use.
func (r *Registry) For(clientID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.stores[clientID]; ok {
		e.lastUsed = now
		return e.store
	}
	opts := r.opts
	if r.pub != nil {
		opts.OnChange = func(shown bool, t Toast) {
			typ := events.TypeToastDismiss
			if shown {
				typ = events.TypeToastShown
			}
			r.pub.Publish(clientID, events.MakeEvent("", typ, 1, t))
		}
	}
	s := NewStore(opts)
	r.stores[clientID] = &registryEntry{store: s, lastUsed: now}
	return s
}

// Sweep drops stores that hold no toasts and were last used more than
// IdleTTL ago. It returns the number of stores removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, e := range r.stores {
		if now.Sub(e.lastUsed) > r.idle && e.store.Len() == 0 {
			delete(r.stores, id)
			removed++
		}
	}
	return removed
}

// Len reports how many client stores are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

func (r *Registry) janitor() {
	ticker := time.NewTicker(r.idle)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close stops the sweeper and every timer across all clients.
func (r *Registry) Close() {
	r.closeMu.Do(func() { close(r.done) })

	r.mu.Lock()
	stores := r.stores
	r.stores = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, e := range stores {
		e.store.Close()
	}
}
