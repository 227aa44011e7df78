// Package observable holds process-wide state with a single owner and many
// read-only subscribers.
package observable

import "sync"

// Store owns a value of type T. Only the owner calls Set/Update; everyone
// else reads Get or subscribes.
type Store[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   map[int]func(T)
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial, subs: make(map[int]func(T))}
}

func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := s.snapshot()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Update applies fn under the lock and publishes the result.
func (s *Store[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	s.value = fn(s.value)
	v := s.value
	subs := s.snapshot()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(v)
	}
	return v
}

// Subscribe registers fn and returns a func that removes it. fn is called
// outside the lock, after every Set/Update.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store[T]) snapshot() []func(T) {
	out := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
