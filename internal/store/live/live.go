// Package live turns a document-store query into a continuously updated
// in-memory snapshot plus loading/error state. Each store change triggers a
// full re-materialization of the result set; consumers hold the latest
// snapshot and a cancellation handle, nothing else.
package live

import (
	"context"
	"sync"
)

// Query describes a live collection query. Status is an optional equality
// clause; ordering is owned by the source (loans are served by start date,
// newest first).
type Query struct {
	Status string
}

// Snapshot is a complete, point-in-time materialization of a query's result
// set. Err is set when the source failed; Data then carries the last good
// result untouched.
type Snapshot[T any] struct {
	Data []T
	Err  error
}

// Source abstracts the store behind a subscription: one-shot materialization
// of a query plus a change feed for its result set.
type Source[T any] interface {
	// Materialize runs the query once and returns the ordered result set,
	// every record carrying its store-assigned identifier.
	Materialize(ctx context.Context, q Query) ([]T, error)

	// Changes opens a change feed covering q. The first channel receives one
	// value per store change, the second delivers a terminal transport error.
	// The returned stop function releases the feed and must always be called.
	Changes(ctx context.Context, q Query) (<-chan struct{}, <-chan error, func(), error)
}

// Subscription is a live view over a collection query. It is created by
// Collection and torn down by Close or by cancelling the supplied context;
// no feed survives past either.
type Subscription[T any] struct {
	snapshots chan Snapshot[T]
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	data    []T
	err     error
	loading bool
}

// Collection establishes a live subscription for q against src. A nil query
// is the disabled state: no feed is opened, data stays nil, loading is false
// and the snapshot channel is already closed.
func Collection[T any](ctx context.Context, src Source[T], q *Query) *Subscription[T] {
	if q == nil {
		s := &Subscription[T]{
			snapshots: make(chan Snapshot[T]),
			cancel:    func() {},
			done:      make(chan struct{}),
		}
		close(s.snapshots)
		close(s.done)
		return s
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		snapshots: make(chan Snapshot[T], 1),
		cancel:    cancel,
		done:      make(chan struct{}),
		loading:   true,
	}

	go s.run(runCtx, src, *q)
	return s
}

func (s *Subscription[T]) run(ctx context.Context, src Source[T], q Query) {
	defer close(s.done)
	defer close(s.snapshots)

	changes, errs, stop, err := src.Changes(ctx, q)
	if err != nil {
		s.publishError(ctx, err)
		return
	}
	defer stop()

	data, err := src.Materialize(ctx, q)
	if err != nil {
		s.publishError(ctx, err)
		return
	}
	s.publishData(ctx, data)

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			// Transport failure is terminal for this subscription; the prior
			// snapshot stays available through Latest.
			s.publishError(ctx, err)
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			data, err := src.Materialize(ctx, q)
			if err != nil {
				s.publishError(ctx, err)
				return
			}
			s.publishData(ctx, data)
		}
	}
}

func (s *Subscription[T]) publishData(ctx context.Context, data []T) {
	s.mu.Lock()
	s.data = data
	s.err = nil
	s.loading = false
	s.mu.Unlock()

	select {
	case s.snapshots <- Snapshot[T]{Data: data}:
	case <-ctx.Done():
	}
}

func (s *Subscription[T]) publishError(ctx context.Context, err error) {
	s.mu.Lock()
	s.err = err
	s.loading = false
	prior := s.data
	s.mu.Unlock()

	select {
	case s.snapshots <- Snapshot[T]{Data: prior, Err: err}:
	case <-ctx.Done():
	}
}

// Snapshots returns the ordered snapshot channel. It is closed when the
// subscription ends for any reason.
func (s *Subscription[T]) Snapshots() <-chan Snapshot[T] {
	return s.snapshots
}

// Latest returns the most recent result set and error.
func (s *Subscription[T]) Latest() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.err
}

// Loading reports whether the first snapshot is still pending. It flips to
// false exactly once, on the first delivered result or error.
func (s *Subscription[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Close tears the subscription down and waits for the feed to be released.
// It is safe to call multiple times.
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})
}
