package storage

import (
	"context"

	"fronthaul-lab/internal/domain"
)

// SnapshotSource produces a fresh snapshot; the pipeline runner is the
// only production implementation.
type SnapshotSource interface {
	Run(ctx context.Context) (*domain.Snapshot, error)
}

// SnapshotStore owns the latest completed snapshot.
type SnapshotStore interface {
	// Latest returns the last completed snapshot, or ErrEmpty before the
	// first successful run.
	Latest() (*domain.Snapshot, error)

	// Refresh recomputes the snapshot. Concurrent callers collapse onto a
	// single in-flight run; a failed run leaves the last-good snapshot in
	// place.
	Refresh(ctx context.Context) (*domain.Snapshot, error)

	// LatestOrRefresh returns the latest snapshot, running the pipeline
	// first if none exists yet.
	LatestOrRefresh(ctx context.Context) (*domain.Snapshot, error)
}
