// internal/toast/store.go
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"interview-portal/internal/common/metrics"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

const (
	DefaultDuration = 3000 * time.Millisecond
	DefaultOffset   = 64
)

// Valid reports whether k is one of the four toast kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindError, KindInfo, KindWarning:
		return true
	}
	return false
}

type Toast struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	// Offset is the vertical position in pixels, index * spacing.
	Offset int `json:"offset"`
}

// Timer is the part of *time.Timer the store needs.
type Timer interface {
	Stop() bool
}

// Clock lets tests drive time.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// ChangeFunc observes toasts appearing and disappearing.
type ChangeFunc func(shown bool, t Toast)

type Options struct {
	Duration time.Duration
	Offset   int
	Clock    Clock
	OnChange ChangeFunc
	// IdleTTL only applies to a Registry.
	IdleTTL time.Duration
}

type entry struct {
	toast Toast
	timer Timer
}

// Store holds one client's toasts in arrival order.
type Store struct {
	mu       sync.Mutex
	entries  []*entry
	duration time.Duration
	offset   int
	clock    Clock
	onChange ChangeFunc
}

func NewStore(opts Options) *Store {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Offset <= 0 {
		opts.Offset = DefaultOffset
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	return &Store{
		duration: opts.Duration,
		offset:   opts.Offset,
		clock:    opts.Clock,
		onChange: opts.OnChange,
	}
}

// Show adds a toast and arms its auto-dismiss timer.
func (s *Store) Show(kind Kind, message string) Toast {
	now := s.clock.Now()
	t := Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(s.duration),
	}

	s.mu.Lock()
	e := &entry{toast: t}
	t.Offset = len(s.entries) * s.offset
	s.entries = append(s.entries, e)
	id := t.ID
	e.timer = s.clock.AfterFunc(s.duration, func() { s.remove(id) })
	s.mu.Unlock()

	metrics.ToastsActive.Inc()
	s.notify(true, t)
	return t
}

func (s *Store) Success(message string) Toast { return s.Show(KindSuccess, message) }

func (s *Store) Error(message string) Toast { return s.Show(KindError, message) }

func (s *Store) Info(message string) Toast { return s.Show(KindInfo, message) }

func (s *Store) Warning(message string) Toast { return s.Show(KindWarning, message) }

// Dismiss removes a toast early and stops its timer. It reports whether
// the toast was still present.
func (s *Store) Dismiss(id string) bool {
	return s.remove(id)
}

func (s *Store) remove(id string) bool {
	s.mu.Lock()
	idx := -1
	for i, e := range s.entries {
		if e.toast.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	e := s.entries[idx]
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	if e.timer != nil {
		e.timer.Stop()
	}
	s.mu.Unlock()

	metrics.ToastsActive.Dec()
	s.notify(false, e.toast)
	return true
}

// List returns the visible toasts in arrival order with current offsets.
func (s *Store) List() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Toast, 0, len(s.entries))
	for i, e := range s.entries {
		t := e.toast
		t.Offset = i * s.offset
		out = append(out, t)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops every pending timer and empties the store.
func (s *Store) Close() {
	s.mu.Lock()
	entries := s.entries
	s.entries = nil
	for _, e := range entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	s.mu.Unlock()
	metrics.ToastsActive.Sub(float64(len(entries)))
}

func (s *Store) notify(shown bool, t Toast) {
	if s.onChange != nil {
		s.onChange(shown, t)
	}
}
