package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/rriharvest"
	"golang.org/x/sync/errgroup"
)

// Run executes the correspond command.
func (c *CorrespondCmd) Run(deps *Dependencies) error {
	sourceStore, closeSource, err := openBackend(deps, c.Source, c.Store, "")
	if err != nil {
		return err
	}
	defer closeSource()
	targetStore, closeTarget, err := openBackend(deps, c.Target, c.Store, "")
	if err != nil {
		return err
	}
	defer closeTarget()

	var source, target *rriharvest.Snapshot
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		var err error
		source, err = sourceStore.Load(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		target, err = targetStore.Load(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rriharvest.ErrorMessage(err))
		return err
	}

	matches := rriharvest.MatchByImage(source.Articles, target.Articles)
	if matches == nil {
		matches = []rriharvest.Correspondence{}
	}

	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if c.Out == "-" {
		_, err := deps.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(c.Out, data, 0o644); err != nil {
		return fmt.Errorf("write correspondences: %w", err)
	}
	fmt.Fprintf(deps.Stdout, "Matched %d of %d articles; wrote %s\n", len(matches), source.Articles.Len(), c.Out)
	return nil
}
