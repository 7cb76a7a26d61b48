package rriharvest

import (
	"maps"
	"slices"
	"time"
)

// ProgressState records which URLs have been processed.
// A URL is either visited, failed, or neither; never both.
type ProgressState struct {
	visited   map[string]struct{}
	failed    map[string]struct{}
	LastSaved time.Time
}

// NewProgressState returns an empty state.
func NewProgressState() *ProgressState {
	return &ProgressState{
		visited: make(map[string]struct{}),
		failed:  make(map[string]struct{}),
	}
}

// MarkVisited records url as successfully processed, clearing any failure.
func (p *ProgressState) MarkVisited(url string) {
	delete(p.failed, url)
	p.visited[url] = struct{}{}
}

// MarkFailed records url as permanently failed.
// A visited URL is never downgraded; the call is a no-op for it.
func (p *ProgressState) MarkFailed(url string) {
	if _, ok := p.visited[url]; ok {
		return
	}
	p.failed[url] = struct{}{}
}

// IsVisited reports whether url was processed successfully.
func (p *ProgressState) IsVisited(url string) bool {
	_, ok := p.visited[url]
	return ok
}

// IsFailed reports whether url failed and awaits an explicit retry.
func (p *ProgressState) IsFailed(url string) bool {
	_, ok := p.failed[url]
	return ok
}

// Seen reports whether url is visited or failed and must not be fetched.
func (p *ProgressState) Seen(url string) bool {
	return p.IsVisited(url) || p.IsFailed(url)
}

// ClearFailed forgets all failures so the next run re-attempts them.
// Returns the number of URLs cleared.
func (p *ProgressState) ClearFailed() int {
	n := len(p.failed)
	p.failed = make(map[string]struct{})
	return n
}

// VisitedCount returns the number of visited URLs.
func (p *ProgressState) VisitedCount() int { return len(p.visited) }

// FailedCount returns the number of failed URLs.
func (p *ProgressState) FailedCount() int { return len(p.failed) }

// Visited returns the visited URLs in sorted order.
func (p *ProgressState) Visited() []string {
	return sortedKeys(p.visited)
}

// Failed returns the failed URLs in sorted order.
func (p *ProgressState) Failed() []string {
	return sortedKeys(p.failed)
}

func sortedKeys(m map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(m))
}
