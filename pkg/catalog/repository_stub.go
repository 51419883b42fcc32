package catalog

import (
	"context"
	"sort"
	"sync"
)

// StubRepository keeps snapshots in memory. It backs the service when no
// database is configured and in tests.
type StubRepository struct {
	mu        sync.Mutex
	snapshots []Snapshot
	Err       error
}

func NewStubRepository() *StubRepository {
	return &StubRepository{}
}

func (r *StubRepository) StoreSnapshot(ctx context.Context, snapshot Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.snapshots = append(r.snapshots, snapshot)
	sort.SliceStable(r.snapshots, func(i, j int) bool {
		return r.snapshots[i].FetchedAt.Before(r.snapshots[j].FetchedAt)
	})
	return nil
}

func (r *StubRepository) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if len(r.snapshots) == 0 {
		return nil, nil
	}
	latest := r.snapshots[len(r.snapshots)-1]
	return &latest, nil
}

func (r *StubRepository) PruneSnapshots(ctx context.Context, keep int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	if keep < 1 {
		keep = 1
	}
	if len(r.snapshots) <= keep {
		return 0, nil
	}
	removed := len(r.snapshots) - keep
	r.snapshots = r.snapshots[removed:]
	return removed, nil
}

func (r *StubRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}
