package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
	"github.com/Divaprk/DAaaS-Platform-G36/pkg/logger"
	"github.com/Divaprk/DAaaS-Platform-G36/pkg/metrics"
)

// Snapshot is an immutable, fully loaded survey dataset.
type Snapshot struct {
	Dataset  model.Dataset
	Source   string
	LoadedAt time.Time
}

// SnapshotStore holds the current snapshot. Reads never block on a reload:
// a new snapshot is published atomically once it is fully loaded, and a
// failed load keeps the previous one.
type SnapshotStore struct {
	source          Source
	refreshInterval time.Duration
	now             func() time.Time

	snapshot atomic.Pointer[Snapshot]
	loadMu   sync.Mutex

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSnapshotStore constructs a store over source. Nothing is loaded until
// Load is called.
func NewSnapshotStore(source Source, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		source:   source,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the source and publishes the result as the current snapshot.
func (s *SnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	ds, err := s.source.Load(ctx)
	metrics.RecordSnapshotLoadDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordSnapshotLoad(s.source.Name(), "error")
		return nil, fmt.Errorf("load %s snapshot: %w", s.source.Name(), err)
	}

	snap := &Snapshot{Dataset: ds, Source: s.source.Name(), LoadedAt: s.now()}
	s.snapshot.Store(snap)

	metrics.RecordSnapshotLoad(snap.Source, "success")
	metrics.UpdateSnapshotRecords(ds.Len())
	metrics.UpdateSnapshotLastUnix(float64(snap.LoadedAt.Unix()))
	return snap, nil
}

// Snapshot returns the current snapshot or ErrNotLoaded.
func (s *SnapshotStore) Snapshot() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Count returns the number of records in the current snapshot.
func (s *SnapshotStore) Count() int {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.Dataset.Len()
	}
	return 0
}

// LoadedAt returns when the current snapshot was published, or the zero time.
func (s *SnapshotStore) LoadedAt() time.Time {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.LoadedAt
	}
	return time.Time{}
}

// StartRefresh reloads the snapshot in the background at the configured
// interval until ctx is done or Close is called. It is a no-op when no
// interval is set.
func (s *SnapshotStore) StartRefresh(ctx context.Context) {
	if s.refreshInterval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if _, err := s.Load(ctx); err != nil {
					metrics.RecordErrorByComponent("repository", "refresh")
					logger.Get().Error(ctx, "snapshot refresh failed", logger.Error(err))
				}
			}
		}
	}()
}

// Close stops background refresh.
func (s *SnapshotStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}
