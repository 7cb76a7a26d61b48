package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/fwojciec/rriharvest"
	"github.com/fwojciec/rriharvest/crawl"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	store, closeStore, err := openStore(deps, &c.StateFlags)
	if err != nil {
		return err
	}
	defer closeStore()

	crawler := &crawl.Crawler{Store: store, Logger: deps.logger(), Section: c.Section}
	stats, err := crawler.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rriharvest.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Fprintf(deps.Stdout, "Section:   %s\n", stats.Section)
	fmt.Fprintf(deps.Stdout, "Articles:  %d\n", stats.Articles)
	fmt.Fprintf(deps.Stdout, "Visited:   %d\n", stats.Visited)
	fmt.Fprintf(deps.Stdout, "Failed:    %d\n", stats.Failed)
	if stats.LastSaved.IsZero() {
		fmt.Fprintln(deps.Stdout, "Saved:     never")
	} else {
		fmt.Fprintf(deps.Stdout, "Saved:     %s\n", stats.LastSaved.Format(time.RFC3339))
	}
	for _, category := range slices.Sorted(maps.Keys(stats.ByCategory)) {
		fmt.Fprintf(deps.Stdout, "  %-30s %d\n", category, stats.ByCategory[category])
	}
	return nil
}
