package supervisor

import "sync"

// Slot is a single-value container whose value can be taken out at most once.
// Taking is the hand-off point between shutdown triggers: the first Take wins
// and every later attempt observes an empty slot.
type Slot[T any] struct {
	mu   sync.Mutex
	v    T
	full bool
}

// NewSlot returns a slot holding v.
func NewSlot[T any](v T) *Slot[T] {
	return &Slot[T]{v: v, full: true}
}

// Take removes and returns the value. ok is false if the slot was empty.
func (s *Slot[T]) Take() (v T, ok bool) {
	return s.TakeIf(nil)
}

// TakeIf removes and returns the value if pred accepts it. A nil pred accepts
// anything. The check and removal happen under one lock.
func (s *Slot[T]) TakeIf(pred func(T) bool) (v T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.full {
		return v, false
	}
	if pred != nil && !pred(s.v) {
		return v, false
	}
	v = s.v
	var zero T
	s.v = zero
	s.full = false
	return v, true
}

// Peek returns the value without removing it.
func (s *Slot[T]) Peek() (v T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v, s.full
}

// Occupied reports whether the slot still holds a value.
func (s *Slot[T]) Occupied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.full
}
