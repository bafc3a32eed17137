package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fronthaul-lab/internal/domain"
	"fronthaul-lab/internal/storage"
)

// fakeSource counts runs and returns a fresh snapshot or a fixed error.
type fakeSource struct {
	runs  atomic.Int64
	err   error
	delay time.Duration
}

func (f *fakeSource) Run(ctx context.Context) (*domain.Snapshot, error) {
	f.runs.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Snapshot{GeneratedAt: time.Now().UTC()}, nil
}

func TestSnapshotStore_LatestBeforeFirstRun(t *testing.T) {
	store := NewSnapshotStore(&fakeSource{})

	_, err := store.Latest()
	assert.ErrorIs(t, err, storage.ErrEmpty)
}

func TestSnapshotStore_RefreshPublishes(t *testing.T) {
	store := NewSnapshotStore(&fakeSource{})

	snap, err := store.Refresh(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Same(t, snap, latest)
}

func TestSnapshotStore_FailedRefreshKeepsLastGood(t *testing.T) {
	source := &fakeSource{}
	store := NewSnapshotStore(source)

	good, err := store.Refresh(context.Background())
	require.NoError(t, err)

	source.err = errors.New("boom")
	_, err = store.Refresh(context.Background())
	require.Error(t, err)

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Same(t, good, latest)
}

func TestSnapshotStore_FailedFirstRefreshStaysEmpty(t *testing.T) {
	store := NewSnapshotStore(&fakeSource{err: errors.New("boom")})

	_, err := store.Refresh(context.Background())
	require.Error(t, err)

	_, err = store.Latest()
	assert.ErrorIs(t, err, storage.ErrEmpty)
}

func TestSnapshotStore_LatestOrRefreshLazy(t *testing.T) {
	source := &fakeSource{}
	store := NewSnapshotStore(source)

	first, err := store.LatestOrRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), source.runs.Load())

	// Second call serves the cached snapshot without re-running.
	second, err := store.LatestOrRefresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), source.runs.Load())
}

func TestSnapshotStore_ConcurrentRefreshCollapses(t *testing.T) {
	source := &fakeSource{delay: 50 * time.Millisecond}
	store := NewSnapshotStore(source)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			snap, err := store.Refresh(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, snap)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), source.runs.Load())
}
