package mock

import (
	"context"

	"github.com/fwojciec/rriharvest"
)

var _ rriharvest.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of rriharvest.SnapshotStore.
type SnapshotStore struct {
	LoadFn func(ctx context.Context) (*rriharvest.Snapshot, error)
	SaveFn func(ctx context.Context, snap *rriharvest.Snapshot) error
}

func (s *SnapshotStore) Load(ctx context.Context) (*rriharvest.Snapshot, error) {
	return s.LoadFn(ctx)
}

func (s *SnapshotStore) Save(ctx context.Context, snap *rriharvest.Snapshot) error {
	return s.SaveFn(ctx, snap)
}
