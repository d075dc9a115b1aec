package memory

import (
	"context"
	"sync"
	"time"

	"github.com/beatforge/beatstore-api/internal/domains/cart/domain"
	"github.com/beatforge/beatstore-api/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory cart persistence adapter, used in tests and
// as the fallback when no Postgres DSN is configured.
type SnapshotStore struct {
	mu    sync.RWMutex
	carts map[string]entry
}

type entry struct {
	snap    domain.Snapshot
	touched time.Time
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{carts: map[string]entry{}}
}

func (s *SnapshotStore) Load(_ context.Context, cartID string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.carts[cartID]
	if !ok {
		return domain.Snapshot{}, ports.ErrCartNotFound
	}
	return cloneSnapshot(e.snap), nil
}

func (s *SnapshotStore) Save(_ context.Context, cartID string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cartID] = entry{snap: cloneSnapshot(snap), touched: time.Now()}
	return nil
}

func (s *SnapshotStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}

// PurgeOlderThan drops snapshots untouched since the cutoff and reports how
// many were removed.
func (s *SnapshotStore) PurgeOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for id, e := range s.carts {
		if e.touched.Before(cutoff) {
			delete(s.carts, id)
			purged++
		}
	}
	return purged, nil
}

func cloneSnapshot(snap domain.Snapshot) domain.Snapshot {
	clone := snap
	clone.Items = append([]domain.LineItem(nil), snap.Items...)
	return clone
}
