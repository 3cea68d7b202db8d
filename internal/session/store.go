package session

import "sync"

// Store serialises dispatches so each step is applied atomically.
type Store struct {
	mu    sync.Mutex
	state State
}

func NewStore() *Store { return &Store{} }

// State returns the current snapshot.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Dispatch applies a and returns the resulting state.
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = Reduce(st.state, a)
	return st.state
}
