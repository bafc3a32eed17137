// Package memory holds the process-wide snapshot behind an atomic swap.
package memory

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"fronthaul-lab/internal/domain"
	"fronthaul-lab/internal/storage"
)

// SnapshotStore is the in-memory implementation of storage.SnapshotStore.
// The snapshot pointer is swapped whole, never mutated field by field, so
// readers can never observe a partially built snapshot. Concurrent
// Refresh calls collapse onto one pipeline run via singleflight.
type SnapshotStore struct {
	source  storage.SnapshotSource
	current atomic.Pointer[domain.Snapshot]
	group   singleflight.Group
}

// NewSnapshotStore creates an empty store backed by the given source.
func NewSnapshotStore(source storage.SnapshotSource) *SnapshotStore {
	return &SnapshotStore{source: source}
}

// Latest returns the last completed snapshot.
func (s *SnapshotStore) Latest() (*domain.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, storage.ErrEmpty
	}
	return snap, nil
}

// Refresh runs the pipeline and publishes the result. A failed run
// discards its partial output and leaves the last-good snapshot intact.
func (s *SnapshotStore) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	result, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		snap, err := s.source.Run(ctx)
		if err != nil {
			return nil, err
		}
		s.current.Store(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Snapshot), nil
}

// LatestOrRefresh serves the existing snapshot, computing the first one
// lazily on first read access.
func (s *SnapshotStore) LatestOrRefresh(ctx context.Context) (*domain.Snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}
	return s.Refresh(ctx)
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)
