package events

import "sync"

type listenerEntry[L any] struct {
	id       uint64
	listener L
}

// listenerSet is the registration bookkeeping shared by CallbackEvent and
// ChannelEvent. L is the listener type, T the notified value.
type listenerSet[L any, T any] struct {
	mu          sync.RWMutex
	entries     []listenerEntry[L] // registration order
	nextID      uint64
	replayLast  bool
	lastEvent   T
	hasNotified bool
}

// add registers l and returns its id. If replay is set, last holds the most
// recent notified value and should be delivered to l by the caller, outside the lock.
func (s *listenerSet[L, T]) add(l L) (id uint64, last T, replay bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id = s.nextID
	s.nextID++
	s.entries = append(s.entries, listenerEntry[L]{id: id, listener: l})
	if s.replayLast && s.hasNotified {
		return id, s.lastEvent, true
	}
	return id, last, false
}

func (s *listenerSet[L, T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

// record stores value as the last event and returns a copy of the listeners,
// so delivery can happen without holding the lock.
func (s *listenerSet[L, T]) record(value T) []L {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replayLast {
		s.lastEvent = value
		s.hasNotified = true
	}
	out := make([]L, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.listener
	}
	return out
}

func (s *listenerSet[L, T]) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
