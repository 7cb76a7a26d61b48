// Package crawl provides the resumable harvesting engine: a rate-limited
// fetcher, a category traverser and the orchestrator that checkpoints
// crawl state.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fwojciec/rriharvest"
	"github.com/google/uuid"
)

// DefaultCheckpointEvery is the number of newly stored articles between checkpoints.
const DefaultCheckpointEvery = 10

// Crawler drives the traverser over configured categories and persists
// crawl state at checkpoints.
type Crawler struct {
	Store     rriharvest.SnapshotStore
	Traverser *Traverser
	Clock     rriharvest.Clock
	Logger    *slog.Logger

	// Section labels the statistics report.
	Section string

	// CheckpointEvery is the number of new articles between checkpoints.
	// Zero means DefaultCheckpointEvery.
	CheckpointEvery int
}

// Result holds the outcome of a crawl run.
type Result struct {
	RunID       string
	NewArticles int
	NewFailures int
	Categories  int
	Stats       *rriharvest.Stats
}

// Run loads the saved state and traverses each category in order.
// State is saved after every CheckpointEvery new articles and after each
// category. When ctx is canceled Run saves what it has and returns the
// context error alongside the partial result.
func (c *Crawler) Run(ctx context.Context, categories []*rriharvest.Category) (*Result, error) {
	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := c.logger().With("run", result.RunID)
	failedBefore := snap.Progress.FailedCount()

	logger.Info("crawl started",
		"section", c.Section,
		"categories", len(categories),
		"visited", snap.Progress.VisitedCount(),
		"failed", failedBefore,
		"articles", snap.Articles.Len(),
	)

	every := c.CheckpointEvery
	if every <= 0 {
		every = DefaultCheckpointEvery
	}

	pending := 0
	for _, category := range categories {
		for range c.Traverser.Traverse(ctx, category, snap) {
			result.NewArticles++
			pending++
			if pending < every {
				continue
			}
			if err := c.checkpoint(ctx, snap); err != nil {
				return nil, err
			}
			logger.Debug("checkpoint", "articles", snap.Articles.Len())
			pending = 0
		}
		if ctx.Err() != nil {
			break
		}

		if err := c.checkpoint(ctx, snap); err != nil {
			return nil, err
		}
		pending = 0
		result.Categories++
		logger.Info("category finished",
			"category", category.Path,
			"articles", snap.Articles.Len(),
			"failed", snap.Progress.FailedCount(),
		)
	}

	result.NewFailures = snap.Progress.FailedCount() - failedBefore
	result.Stats = snap.Stats(c.Section)

	if err := ctx.Err(); err != nil {
		saveErr := c.checkpoint(ctx, snap)
		logger.Warn("crawl interrupted",
			"new_articles", result.NewArticles,
			"saved", saveErr == nil,
		)
		return result, errors.Join(err, saveErr)
	}

	logger.Info("crawl finished",
		"new_articles", result.NewArticles,
		"new_failures", result.NewFailures,
		"articles", result.Stats.Articles,
	)
	return result, nil
}

// Stats reports counts over the saved state. It performs no network I/O.
func (c *Crawler) Stats(ctx context.Context) (*rriharvest.Stats, error) {
	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Stats(c.Section), nil
}

// ClearFailed forgets all recorded failures so the next run re-attempts
// them, and saves the state. Returns the number of URLs cleared.
func (c *Crawler) ClearFailed(ctx context.Context) (int, error) {
	snap, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	n := snap.Progress.ClearFailed()
	if err := c.checkpoint(ctx, snap); err != nil {
		return 0, err
	}
	c.logger().Info("failures cleared", "section", c.Section, "count", n)
	return n, nil
}

func (c *Crawler) load(ctx context.Context) (*rriharvest.Snapshot, error) {
	snap, err := c.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	snap.Normalize()
	return snap, nil
}

// checkpoint saves snap. Saving ignores cancellation so that an interrupted
// run still flushes its state.
func (c *Crawler) checkpoint(ctx context.Context, snap *rriharvest.Snapshot) error {
	snap.Progress.LastSaved = c.clock().Now().UTC()
	if err := c.Store.Save(context.WithoutCancel(ctx), snap); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (c *Crawler) clock() rriharvest.Clock {
	if c.Clock == nil {
		return SystemClock{}
	}
	return c.Clock
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
