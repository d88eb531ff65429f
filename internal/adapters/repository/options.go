package repository

import "time"

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithRefreshInterval reloads the snapshot from its source at the given
// interval. Zero or negative disables background refresh.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *SnapshotStore) {
		if interval > 0 {
			s.refreshInterval = interval
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *SnapshotStore) {
		if now != nil {
			s.now = now
		}
	}
}
