package beeball

import "iter"

// Slots is a fixed-capacity collection where every entity occupies a slot
// until removed. Slots never move, so indices stay valid across removals.
type Slots[T any] struct {
	items []*T
	count int
}

// NewSlots creates an empty collection with the given capacity.
func NewSlots[T any](capacity int) *Slots[T] {
	return &Slots[T]{items: make([]*T, max(capacity, 0))}
}

// Add puts v in the first free slot. It reports false when v is nil or the
// collection is full.
func (s *Slots[T]) Add(v *T) (int, bool) {
	if v == nil {
		return -1, false
	}
	for i, item := range s.items {
		if item == nil {
			s.items[i] = v
			s.count++
			return i, true
		}
	}
	return -1, false
}

// Get returns the occupant of slot i, or nil.
func (s *Slots[T]) Get(i int) *T {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

// Remove frees slot i and returns its former occupant.
func (s *Slots[T]) Remove(i int) *T {
	v := s.Get(i)
	if v != nil {
		s.items[i] = nil
		s.count--
	}
	return v
}

// RemoveItem frees the slot holding v.
func (s *Slots[T]) RemoveItem(v *T) bool {
	for i, item := range s.items {
		if item == v && v != nil {
			s.Remove(i)
			return true
		}
	}
	return false
}

// Len returns the number of occupied slots.
func (s *Slots[T]) Len() int { return s.count }

// Cap returns the number of slots.
func (s *Slots[T]) Cap() int { return len(s.items) }

// All yields occupied slots in index order. Slots may be freed or filled
// while iterating; a slot is read at the moment it is reached.
func (s *Slots[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range s.items {
			if v := s.items[i]; v != nil {
				if !yield(i, v) {
					return
				}
			}
		}
	}
}

// Values yields the occupants in index order.
func (s *Slots[T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, v := range s.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Clear frees every slot.
func (s *Slots[T]) Clear() {
	clear(s.items)
	s.count = 0
}
