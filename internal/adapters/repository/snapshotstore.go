package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/barhop/internal/domain/model"
	"github.com/okian/barhop/pkg/metrics"
)

// Snapshot is an immutable venue table with an ID index.
type Snapshot struct {
	Venues   []model.Venue
	LoadedAt time.Time
	byID     map[string]int
}

// SnapshotStore serves reads from the current snapshot without locks.
// Replace builds a new snapshot and swaps the pointer, so readers always see
// a complete table.
type SnapshotStore struct {
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(&Snapshot{Venues: []model.Venue{}, byID: map[string]int{}})
	return s
}

// Current returns the active snapshot.
func (s *SnapshotStore) Current() *Snapshot {
	return s.snapshot.Load()
}

// All returns every venue of the active snapshot in load order.
func (s *SnapshotStore) All(_ context.Context) []model.Venue {
	return s.Current().Venues
}

// Get returns the venue with id or ErrNotFound.
func (s *SnapshotStore) Get(_ context.Context, id string) (model.Venue, error) {
	snap := s.Current()
	i, ok := snap.byID[id]
	if !ok {
		return model.Venue{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return snap.Venues[i], nil
}

// Find returns venues matching f in load order, up to f.Limit when positive.
func (s *SnapshotStore) Find(_ context.Context, f Filter) ([]model.Venue, error) {
	if f.Limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, f.Limit)
	}
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	out := []model.Venue{}
	for _, v := range s.Current().Venues {
		if f.Style != "" && !v.Styles.Contains(f.Style) {
			continue
		}
		if f.Music != "" && !v.Music.Contains(f.Music) {
			continue
		}
		out = append(out, v)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of venues in the active snapshot.
func (s *SnapshotStore) Count(_ context.Context) int {
	return len(s.Current().Venues)
}

// Replace publishes venues as the new snapshot. Duplicate IDs leave the
// current snapshot in place.
func (s *SnapshotStore) Replace(_ context.Context, venues []model.Venue) error {
	snap := &Snapshot{
		Venues:   make([]model.Venue, len(venues)),
		LoadedAt: s.now(),
		byID:     make(map[string]int, len(venues)),
	}
	copy(snap.Venues, venues)
	for i, v := range snap.Venues {
		if _, dup := snap.byID[v.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, v.ID)
		}
		snap.byID[v.ID] = i
	}

	s.snapshot.Store(snap)
	metrics.UpdateSnapshotTimestamp(snap.LoadedAt)
	return nil
}

// LoadedAt returns when the active snapshot was published.
func (s *SnapshotStore) LoadedAt() time.Time {
	return s.Current().LoadedAt
}
