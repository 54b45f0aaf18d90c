package input

import "sync"

// KeyReader answers "is this key held right now"
type KeyReader interface {
	IsPressed(key KeyCode) bool
}

// Store is the raw key table
// Entries are created on first observation; an absent entry reads as released.
// Writes come from the host's input goroutine, reads from the tick goroutine.
type Store struct {
	mu   sync.RWMutex
	keys map[KeyCode]bool
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{keys: make(map[KeyCode]bool)}
}

// IsPressed returns true iff an entry exists for key and it is held
func (s *Store) IsPressed(key KeyCode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[key]
}

// Set records the key state and returns the previous one
func (s *Store) Set(key KeyCode, pressed bool) (was bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	was = s.keys[key]
	s.keys[key] = pressed
	return was
}

// ReleaseAll forces every known entry to released without removing it
func (s *Store) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.keys {
		s.keys[k] = false
	}
}

// Pressed returns the currently held keys in key order
func (s *Store) Pressed() []KeyCode {
	s.mu.RLock()
	out := make([]KeyCode, 0, len(s.keys))
	for k, down := range s.keys {
		if down {
			out = append(out, k)
		}
	}
	s.mu.RUnlock()
	sortKeys(out)
	return out
}

// Snapshot copies the table
func (s *Store) Snapshot() map[KeyCode]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[KeyCode]bool, len(s.keys))
	for k, v := range s.keys {
		out[k] = v
	}
	return out
}

// Len returns the number of observed keys
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Clear drops every entry; used on teardown
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[KeyCode]bool)
}
