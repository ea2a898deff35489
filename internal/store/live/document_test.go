package live_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muthuvel01/goldpledge/internal/store/live"
)

type fakeDocSource struct {
	mu   sync.Mutex
	docs map[string]rec
	err  error

	changes chan struct{}
	errs    chan error

	stopped   bool
	stoppedCh chan struct{}
}

func newFakeDocSource(docs map[string]rec) *fakeDocSource {
	return &fakeDocSource{
		docs:      docs,
		changes:   make(chan struct{}, 4),
		errs:      make(chan error, 1),
		stoppedCh: make(chan struct{}),
	}
}

func (f *fakeDocSource) Get(ctx context.Context, id string) (*rec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (f *fakeDocSource) Changes(ctx context.Context, id string) (<-chan struct{}, <-chan error, func(), error) {
	stop := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.stopped {
			f.stopped = true
			close(f.stoppedCh)
		}
	}
	return f.changes, f.errs, stop, nil
}

func waitDocSnapshot(t *testing.T, sub *live.DocSubscription[rec]) live.DocSnapshot[rec] {
	t.Helper()
	select {
	case snap, ok := <-sub.Snapshots():
		require.True(t, ok, "snapshot channel closed unexpectedly")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return live.DocSnapshot[rec]{}
	}
}

func TestDocumentEmptyIDIsDisabled(t *testing.T) {
	src := newFakeDocSource(map[string]rec{"1": {ID: "1"}})

	sub := live.Document[rec](context.Background(), src, "")
	defer sub.Close()

	data, err := sub.Latest()
	assert.Nil(t, data)
	assert.NoError(t, err)
	assert.False(t, sub.Loading())

	_, ok := <-sub.Snapshots()
	assert.False(t, ok)
}

func TestDocumentDeliversRecord(t *testing.T) {
	src := newFakeDocSource(map[string]rec{"1": {ID: "1", Name: "Alice"}})

	sub := live.Document[rec](context.Background(), src, "1")
	defer sub.Close()

	snap := waitDocSnapshot(t, sub)
	require.NoError(t, snap.Err)
	require.NotNil(t, snap.Data)
	assert.Equal(t, "Alice", snap.Data.Name)
	assert.False(t, sub.Loading())
}

func TestDocumentAbsentYieldsNil(t *testing.T) {
	src := newFakeDocSource(map[string]rec{})

	sub := live.Document[rec](context.Background(), src, "missing")
	defer sub.Close()

	snap := waitDocSnapshot(t, sub)
	assert.NoError(t, snap.Err)
	assert.Nil(t, snap.Data)
	assert.False(t, sub.Loading())
}

func TestDocumentDeletionPushesNil(t *testing.T) {
	src := newFakeDocSource(map[string]rec{"1": {ID: "1"}})

	sub := live.Document[rec](context.Background(), src, "1")
	defer sub.Close()

	first := waitDocSnapshot(t, sub)
	require.NotNil(t, first.Data)

	src.mu.Lock()
	delete(src.docs, "1")
	src.mu.Unlock()
	src.changes <- struct{}{}

	second := waitDocSnapshot(t, sub)
	assert.Nil(t, second.Data)
	assert.NoError(t, second.Err)
}

func TestDocumentErrorKeepsPriorData(t *testing.T) {
	src := newFakeDocSource(map[string]rec{"1": {ID: "1", Name: "Alice"}})

	sub := live.Document[rec](context.Background(), src, "1")
	defer sub.Close()

	waitDocSnapshot(t, sub)

	src.mu.Lock()
	src.err = errors.New("store unreachable")
	src.mu.Unlock()
	src.changes <- struct{}{}

	snap := waitDocSnapshot(t, sub)
	require.Error(t, snap.Err)
	require.NotNil(t, snap.Data)
	assert.Equal(t, "Alice", snap.Data.Name)

	select {
	case <-src.stoppedCh:
	case <-time.After(2 * time.Second):
		t.Fatal("feed was not released after terminal error")
	}
}
