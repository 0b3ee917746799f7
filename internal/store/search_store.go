package store

import "sync"

// SearchStore holds the current free-text catalog query. The query is stored
// verbatim, without trimming or debouncing.
type SearchStore struct {
	mu        sync.Mutex
	query     string
	nextSubID int
	subs      map[int]func()
}

// NewSearchStore returns a store with an empty query.
func NewSearchStore() *SearchStore {
	return &SearchStore{subs: make(map[int]func())}
}

// SetQuery replaces the current query and notifies subscribers.
func (s *SearchStore) SetQuery(query string) {
	s.mu.Lock()
	s.query = query
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Query returns the current query string.
func (s *SearchStore) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Subscribe registers a listener invoked synchronously after each SetQuery.
// Listeners must not mutate the store from inside the callback. The returned
// function removes the listener.
func (s *SearchStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
