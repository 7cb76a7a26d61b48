package rriharvest

import (
	"context"
	"time"
)

// Snapshot is the durable crawl state: progress plus harvested articles.
// All mutation happens on an in-memory Snapshot; stores only load and save it.
type Snapshot struct {
	Progress *ProgressState
	Articles *ArticleIndex
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Progress: NewProgressState(),
		Articles: NewArticleIndex(),
	}
}

// Normalize marks every stored article as visited.
// State written by older runs may hold articles missing from the visited set.
func (s *Snapshot) Normalize() {
	for _, a := range s.Articles.All() {
		s.Progress.MarkVisited(a.URL)
	}
}

// Record stores a harvested article and marks its URL visited.
// Returns false if the URL was already stored.
func (s *Snapshot) Record(a *Article) bool {
	inserted := s.Articles.Upsert(a)
	s.Progress.MarkVisited(a.URL)
	return inserted
}

// Stats reports counts over the snapshot without touching the network.
func (s *Snapshot) Stats(section string) *Stats {
	byCategory := make(map[string]int)
	for _, a := range s.Articles.All() {
		byCategory[a.Category]++
	}
	return &Stats{
		Section:    section,
		Visited:    s.Progress.VisitedCount(),
		Failed:     s.Progress.FailedCount(),
		Articles:   s.Articles.Len(),
		ByCategory: byCategory,
		LastSaved:  s.Progress.LastSaved,
	}
}

// Stats summarizes persisted crawl state.
type Stats struct {
	Section    string         `json:"section"`
	Visited    int            `json:"visited"`
	Failed     int            `json:"failed"`
	Articles   int            `json:"articles"`
	ByCategory map[string]int `json:"by_category"`
	LastSaved  time.Time      `json:"last_saved"`
}

// SnapshotStore persists snapshots.
// Load returns an empty snapshot when nothing has been saved yet.
// Save must never leave a previously saved snapshot half-overwritten.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}
