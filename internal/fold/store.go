package fold

// Store holds fold state per open buffer. Entries are created the first
// time a buffer's regions are reported and removed when the buffer is
// closed; nothing here is global, callers pass the store by reference.
type Store struct {
	states map[string]*State
}

func NewStore() *Store {
	return &Store{states: make(map[string]*State)}
}

// Open returns the fold state for the buffer, creating it on first use.
func (s *Store) Open(buffer string) *State {
	st, ok := s.states[buffer]
	if !ok {
		st = NewState()
		s.states[buffer] = st
	}
	return st
}

// Get returns the fold state for the buffer without creating one.
func (s *Store) Get(buffer string) (*State, bool) {
	st, ok := s.states[buffer]
	return st, ok
}

// Close drops the fold state for a buffer.
func (s *Store) Close(buffer string) {
	delete(s.states, buffer)
}

// Len returns the number of tracked buffers.
func (s *Store) Len() int {
	return len(s.states)
}
