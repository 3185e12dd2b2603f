package channelset

import "sync"

// Store holds the current Set for a viewer session. It is the only mutable
// state shared between the push listener (writer) and the view (readers).
// Mutations go through Dispatch and every transition replaces the snapshot
// as a whole.
type Store struct {
	mu          sync.Mutex
	state       Set
	subscribers map[int]func(Set)
	nextID      int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{subscribers: make(map[int]func(Set))}
}

// Snapshot returns the current set.
func (s *Store) Snapshot() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies actions in order as a single transition and returns the
// resulting set. Subscribers are notified once, and only if the set changed.
// Notifications are delivered while the store lock is held so that every
// subscriber observes transitions in dispatch order; subscribers must not
// call Dispatch.
func (s *Store) Dispatch(actions ...Action) Set {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	for _, a := range actions {
		next = Reduce(next, a)
	}
	if next.Equal(s.state) {
		return s.state
	}
	s.state = next

	for _, id := range s.subscriberIDsLocked() {
		s.subscribers[id](next)
	}
	return next
}

// Subscribe registers fn to receive every new snapshot. fn is called once
// with the current snapshot before Subscribe returns, so a subscriber never
// misses a transition. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Set)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	fn(s.state)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// subscriberIDsLocked returns subscription ids in registration order.
// Caller must hold s.mu.
func (s *Store) subscriberIDsLocked() []int {
	ids := make([]int, 0, len(s.subscribers))
	for id := 0; id < s.nextID; id++ {
		if _, ok := s.subscribers[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
