package catalog

import (
	"context"
	"sync"

	"shoppyglobe/internal/domain"
)

// Status is the lifecycle phase of a catalog query.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ListState is a snapshot of the list query. On error any previously fetched
// products are gone; the state is replaced, never merged.
type ListState struct {
	Status   Status
	Products []domain.Product
	Err      string
}

// ListQuery fetches the full product list once per activation. Each Start
// begins a new generation; a completion belonging to an older generation, or
// to a cancelled one, never mutates state.
type ListQuery struct {
	mu        sync.Mutex
	client    *Client
	state     ListState
	seq       uint64
	cancel    context.CancelFunc
	done      chan struct{}
	nextSubID int
	subs      map[int]func()
}

// NewListQuery returns an idle list query.
func NewListQuery(client *Client) *ListQuery {
	return &ListQuery{
		client: client,
		state:  ListState{Status: StatusIdle},
		subs:   make(map[int]func()),
	}
}

// Start transitions to loading and fetches asynchronously. Calling Start
// again supersedes any in-flight fetch.
func (q *ListQuery) Start(ctx context.Context) {
	q.mu.Lock()
	q.seq++
	seq := q.seq
	if q.cancel != nil {
		q.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	done := make(chan struct{})
	q.done = done
	q.state = ListState{Status: StatusLoading}
	q.mu.Unlock()
	q.notify()

	go func() {
		defer close(done)

		products, err := q.client.List(ctx)

		q.mu.Lock()
		if seq != q.seq || ctx.Err() != nil {
			// Overtaken or cancelled; drop the result.
			q.mu.Unlock()
			return
		}
		if err != nil {
			q.state = ListState{Status: StatusError, Err: err.Error()}
		} else {
			q.state = ListState{Status: StatusSuccess, Products: products}
		}
		q.mu.Unlock()
		q.notify()
	}()
}

// State returns the current snapshot.
func (q *ListQuery) State() ListState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Wait blocks until the current generation reaches a terminal state or ctx
// expires, then returns the latest snapshot.
func (q *ListQuery) Wait(ctx context.Context) (ListState, error) {
	q.mu.Lock()
	done := q.done
	state := q.state
	q.mu.Unlock()

	if done == nil || state.Status == StatusSuccess || state.Status == StatusError {
		return state, nil
	}

	select {
	case <-done:
		return q.State(), nil
	case <-ctx.Done():
		return q.State(), ctx.Err()
	}
}

// Cancel aborts any in-flight fetch; its completion will not mutate state.
func (q *ListQuery) Cancel() {
	q.mu.Lock()
	q.seq++
	if q.cancel != nil {
		q.cancel()
	}
	q.mu.Unlock()
}

// Subscribe registers a listener invoked synchronously after each state
// change. The returned function removes the listener.
func (q *ListQuery) Subscribe(fn func()) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.nextSubID
	q.nextSubID++
	q.subs[id] = fn
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.subs, id)
	}
}

func (q *ListQuery) notify() {
	q.mu.Lock()
	fns := make([]func(), 0, len(q.subs))
	for _, fn := range q.subs {
		fns = append(fns, fn)
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// DetailState is a snapshot of the detail query. ActiveImage defaults to the
// product's first image on success.
type DetailState struct {
	Status      Status
	Product     *domain.Product
	ActiveImage string
	Err         string
}

// DetailQuery fetches a single product by id. Every Load starts a new
// generation; the visible state always reflects the most recent id, never an
// overtaken request that happened to arrive later.
type DetailQuery struct {
	mu        sync.Mutex
	client    *Client
	state     DetailState
	seq       uint64
	cancel    context.CancelFunc
	done      chan struct{}
	nextSubID int
	subs      map[int]func()
}

// NewDetailQuery returns an idle detail query.
func NewDetailQuery(client *Client) *DetailQuery {
	return &DetailQuery{
		client: client,
		state:  DetailState{Status: StatusIdle},
		subs:   make(map[int]func()),
	}
}

// Load fetches the product with the given id, superseding any in-flight
// request for a previous id.
func (q *DetailQuery) Load(ctx context.Context, id int) {
	q.mu.Lock()
	q.seq++
	seq := q.seq
	if q.cancel != nil {
		q.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	done := make(chan struct{})
	q.done = done
	q.state = DetailState{Status: StatusLoading}
	q.mu.Unlock()
	q.notify()

	go func() {
		defer close(done)

		product, err := q.client.Get(ctx, id)

		q.mu.Lock()
		if seq != q.seq || ctx.Err() != nil {
			// Stale: a newer Load won, or the query was cancelled.
			q.mu.Unlock()
			return
		}
		if err != nil {
			q.state = DetailState{Status: StatusError, Err: err.Error()}
		} else {
			state := DetailState{Status: StatusSuccess, Product: product}
			if len(product.Images) > 0 {
				state.ActiveImage = product.Images[0]
			}
			q.state = state
		}
		q.mu.Unlock()
		q.notify()
	}()
}

// SetActiveImage switches the display image. It only applies on a successful
// state and only to one of the product's own images.
func (q *DetailQuery) SetActiveImage(url string) {
	q.mu.Lock()
	if q.state.Status != StatusSuccess || q.state.Product == nil {
		q.mu.Unlock()
		return
	}
	for _, img := range q.state.Product.Images {
		if img == url {
			q.state.ActiveImage = url
			q.mu.Unlock()
			q.notify()
			return
		}
	}
	q.mu.Unlock()
}

// State returns the current snapshot.
func (q *DetailQuery) State() DetailState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Wait blocks until the current generation reaches a terminal state or ctx
// expires, then returns the latest snapshot.
func (q *DetailQuery) Wait(ctx context.Context) (DetailState, error) {
	q.mu.Lock()
	done := q.done
	state := q.state
	q.mu.Unlock()

	if done == nil || state.Status == StatusSuccess || state.Status == StatusError {
		return state, nil
	}

	select {
	case <-done:
		return q.State(), nil
	case <-ctx.Done():
		return q.State(), ctx.Err()
	}
}

// Cancel aborts any in-flight fetch; its completion will not mutate state.
func (q *DetailQuery) Cancel() {
	q.mu.Lock()
	q.seq++
	if q.cancel != nil {
		q.cancel()
	}
	q.mu.Unlock()
}

// Subscribe registers a listener invoked synchronously after each state
// change. The returned function removes the listener.
func (q *DetailQuery) Subscribe(fn func()) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.nextSubID
	q.nextSubID++
	q.subs[id] = fn
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.subs, id)
	}
}

func (q *DetailQuery) notify() {
	q.mu.Lock()
	fns := make([]func(), 0, len(q.subs))
	for _, fn := range q.subs {
		fns = append(fns, fn)
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
