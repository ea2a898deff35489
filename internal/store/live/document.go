package live

import (
	"context"
	"sync"
)

// DocSnapshot is the single-document counterpart of Snapshot. Data is nil
// when the document is absent.
type DocSnapshot[T any] struct {
	Data *T
	Err  error
}

// DocSource abstracts the store behind a single-document subscription.
type DocSource[T any] interface {
	// Get fetches the document once. An absent document yields (nil, nil).
	Get(ctx context.Context, id string) (*T, error)

	// Changes opens a change feed scoped to the document identifier.
	Changes(ctx context.Context, id string) (<-chan struct{}, <-chan error, func(), error)
}

// DocSubscription is a live view over one document reference.
type DocSubscription[T any] struct {
	snapshots chan DocSnapshot[T]
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	data    *T
	err     error
	loading bool
}

// Document establishes a live subscription for the document identified by id.
// An empty id is the disabled state, mirroring a nil collection query.
func Document[T any](ctx context.Context, src DocSource[T], id string) *DocSubscription[T] {
	if id == "" {
		s := &DocSubscription[T]{
			snapshots: make(chan DocSnapshot[T]),
			cancel:    func() {},
			done:      make(chan struct{}),
		}
		close(s.snapshots)
		close(s.done)
		return s
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &DocSubscription[T]{
		snapshots: make(chan DocSnapshot[T], 1),
		cancel:    cancel,
		done:      make(chan struct{}),
		loading:   true,
	}

	go s.run(runCtx, src, id)
	return s
}

func (s *DocSubscription[T]) run(ctx context.Context, src DocSource[T], id string) {
	defer close(s.done)
	defer close(s.snapshots)

	changes, errs, stop, err := src.Changes(ctx, id)
	if err != nil {
		s.publishError(ctx, err)
		return
	}
	defer stop()

	doc, err := src.Get(ctx, id)
	if err != nil {
		s.publishError(ctx, err)
		return
	}
	s.publishData(ctx, doc)

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			s.publishError(ctx, err)
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			doc, err := src.Get(ctx, id)
			if err != nil {
				s.publishError(ctx, err)
				return
			}
			s.publishData(ctx, doc)
		}
	}
}

func (s *DocSubscription[T]) publishData(ctx context.Context, doc *T) {
	s.mu.Lock()
	s.data = doc
	s.err = nil
	s.loading = false
	s.mu.Unlock()

	select {
	case s.snapshots <- DocSnapshot[T]{Data: doc}:
	case <-ctx.Done():
	}
}

func (s *DocSubscription[T]) publishError(ctx context.Context, err error) {
	s.mu.Lock()
	s.err = err
	s.loading = false
	prior := s.data
	s.mu.Unlock()

	select {
	case s.snapshots <- DocSnapshot[T]{Data: prior, Err: err}:
	case <-ctx.Done():
	}
}

// Snapshots returns the ordered snapshot channel, closed on teardown.
func (s *DocSubscription[T]) Snapshots() <-chan DocSnapshot[T] {
	return s.snapshots
}

// Latest returns the most recent document and error.
func (s *DocSubscription[T]) Latest() (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.err
}

// Loading reports whether the first snapshot is still pending.
func (s *DocSubscription[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Close tears the subscription down and waits for the feed to be released.
func (s *DocSubscription[T]) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})
}
