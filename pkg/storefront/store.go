// Package storefront holds the client side of The Lyyn storefront: the cart, wishlist
// and auth stores, stock reconciliation of cart lines, presentation state machines and
// a typed client for the storefront API.
package storefront

import "sync"

// Action is a message dispatched to a Store.
type Action interface{}

// Reducer derives the next state from the current one. It must not mutate s.
type Reducer[S any] func(s S, a Action) S

// Store is a single-writer state container. Every change goes through Dispatch.
type Store[S any] struct {
	// dispatch serialises Dispatch calls so subscribers see states in dispatch order.
	dispatch sync.Mutex
	mu       sync.Mutex
	state    S
	reduce   Reducer[S]
	subs     map[int]func(S)
	nextID   int
}

// NewStore creates a store holding initial.
func NewStore[S any](initial S, reduce Reducer[S]) *Store[S] {
	return &Store[S]{state: initial, reduce: reduce, subs: make(map[int]func(S))}
}

// Dispatch applies a and notifies subscribers with the resulting state, in dispatch
// order. Subscribers run on the dispatching goroutine after the state is published, so
// they may read this store; they must not dispatch to it.
func (s *Store[S]) Dispatch(a Action) S {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	s.state = s.reduce(s.state, a)
	next := s.state
	subs := make([]func(S), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// State returns the current state.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for state changes and returns the function that removes it.
func (s *Store[S]) Subscribe(fn func(S)) (unsubscribe func()) {
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
