package session

import (
	"sync"
	"time"

	"lifelink.org/internal/ids"
)

const (
	defaultIdleTTL         = 12 * time.Hour
	defaultJanitorInterval = time.Minute
)

// Store keeps session holders in process memory. Nothing is persisted, so a
// restart drops every session.
type Store struct {
	mu      sync.RWMutex
	holders map[string]*Holder

	idleTTL  time.Duration
	interval time.Duration
	now      func() time.Time
	observe  func(active int)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIdleTTL sets how long an untouched holder survives.
func WithIdleTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

// WithJanitorInterval sets the eviction period. Zero disables the janitor.
func WithJanitorInterval(d time.Duration) StoreOption {
	return func(s *Store) {
		if d >= 0 {
			s.interval = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithObserver registers a callback invoked with the holder count after
// every change.
func WithObserver(fn func(active int)) StoreOption {
	return func(s *Store) {
		s.observe = fn
	}
}

// NewStore constructs a Store and starts its janitor.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		holders:  make(map[string]*Holder),
		idleTTL:  defaultIdleTTL,
		interval: defaultJanitorInterval,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval > 0 {
		go s.janitor()
	} else {
		close(s.done)
	}
	return s
}

// Open creates and registers a fresh, unauthenticated holder.
func (s *Store) Open() *Holder {
	h := NewHolder(ids.New())
	h.touch(s.now().UTC())
	s.mu.Lock()
	s.holders[h.ID()] = h
	n := len(s.holders)
	s.mu.Unlock()
	s.notify(n)
	return h
}

// Get returns the holder for id and refreshes its idle timer.
func (s *Store) Get(id string) (*Holder, error) {
	s.mu.RLock()
	h, ok := s.holders[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now().UTC()
	if now.Sub(h.idleSince()) > s.idleTTL {
		s.remove(id)
		return nil, ErrNotFound
	}
	h.touch(now)
	return h, nil
}

// Close tears the session down: the holder is logged out and forgotten.
func (s *Store) Close(id string) {
	s.mu.RLock()
	h, ok := s.holders[id]
	s.mu.RUnlock()
	if ok {
		h.Logout()
	}
	s.remove(id)
}

// Len reports the number of live holders.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.holders)
}

// Sweep evicts idle holders and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now().UTC()
	s.mu.Lock()
	removed := 0
	for id, h := range s.holders {
		if now.Sub(h.idleSince()) > s.idleTTL {
			delete(s.holders, id)
			removed++
		}
	}
	n := len(s.holders)
	s.mu.Unlock()
	if removed > 0 {
		s.notify(n)
	}
	return removed
}

// Stop ends the janitor goroutine and waits for it to exit.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *Store) remove(id string) {
	s.mu.Lock()
	_, existed := s.holders[id]
	delete(s.holders, id)
	n := len(s.holders)
	s.mu.Unlock()
	if existed {
		s.notify(n)
	}
}

func (s *Store) notify(n int) {
	if s.observe != nil {
		s.observe(n)
	}
}

func (s *Store) janitor() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
