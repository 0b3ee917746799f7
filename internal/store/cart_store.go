package store

import (
	"sync"

	"shoppyglobe/internal/domain"
)

// CartStore holds the process-wide cart state. All mutation goes through the
// four transition methods; each committed transition notifies subscribers
// synchronously. Reads return copies so callers can never mutate the backing
// slice directly.
type CartStore struct {
	mu        sync.Mutex
	lines     []domain.CartLine
	nextSubID int
	subs      map[int]func()
}

// NewCartStore returns an empty cart.
func NewCartStore() *CartStore {
	return &CartStore{subs: make(map[int]func())}
}

// AddToCart inserts a new line with quantity 1, or increments the quantity of
// the existing line for the same product id. It always succeeds; stock is not
// enforced as a cart limit.
func (s *CartStore) AddToCart(p domain.Product) {
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == p.ID {
			s.lines[i].Quantity++
			s.mu.Unlock()
			s.notify()
			return
		}
	}
	s.lines = append(s.lines, domain.NewCartLine(p))
	s.mu.Unlock()
	s.notify()
}

// UpdateQuantity sets the line's quantity to exactly quantity. Requests with
// quantity below 1, or for an id with no line, leave the cart unchanged.
func (s *CartStore) UpdateQuantity(id, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines[i].Quantity = quantity
			s.mu.Unlock()
			s.notify()
			return
		}
	}
	s.mu.Unlock()
}

// RemoveFromCart deletes the line with the given id; no-op if absent.
func (s *CartStore) RemoveFromCart(id int) {
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.mu.Unlock()
			s.notify()
			return
		}
	}
	s.mu.Unlock()
}

// ClearCart empties the cart unconditionally.
func (s *CartStore) ClearCart() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	s.notify()
}

// Lines returns a copy of the cart lines in insertion order.
func (s *CartStore) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Subscribe registers a listener invoked synchronously after every committed
// transition. Listeners must not mutate the store from inside the callback.
// The returned function removes the listener.
func (s *CartStore) Subscribe(fn func()) func() {
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

// notify runs outside the store lock so listeners can read the committed state.
func (s *CartStore) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
