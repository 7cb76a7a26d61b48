package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rriharvest"
)

// Ensure LoggingStore implements rriharvest.SnapshotStore.
var _ rriharvest.SnapshotStore = (*LoggingStore)(nil)

// LoggingStore wraps a SnapshotStore with logging.
type LoggingStore struct {
	next   rriharvest.SnapshotStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next rriharvest.SnapshotStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Load delegates to the wrapped store and logs the loaded counts.
func (s *LoggingStore) Load(ctx context.Context) (snap *rriharvest.Snapshot, err error) {
	defer func(begin time.Time) {
		logResult(s.logger, "load snapshot", err, append(snapshotAttrs(snap), "duration", time.Since(begin))...)
	}(time.Now())
	return s.next.Load(ctx)
}

// Save delegates to the wrapped store and logs the saved counts.
func (s *LoggingStore) Save(ctx context.Context, snap *rriharvest.Snapshot) (err error) {
	defer func(begin time.Time) {
		logResult(s.logger, "save snapshot", err, append(snapshotAttrs(snap), "duration", time.Since(begin))...)
	}(time.Now())
	return s.next.Save(ctx, snap)
}

func snapshotAttrs(snap *rriharvest.Snapshot) []any {
	if snap == nil {
		return nil
	}
	return []any{
		"visited", snap.Progress.VisitedCount(),
		"failed", snap.Progress.FailedCount(),
		"articles", snap.Articles.Len(),
	}
}
