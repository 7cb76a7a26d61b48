package main

import (
	"fmt"

	"github.com/fwojciec/rriharvest"
	"github.com/fwojciec/rriharvest/crawl"
)

// Run executes the retry-failed command.
func (c *RetryFailedCmd) Run(deps *Dependencies) error {
	store, closeStore, err := openStore(deps, &c.StateFlags)
	if err != nil {
		return err
	}
	defer closeStore()

	crawler := &crawl.Crawler{Store: store, Clock: deps.clock(), Logger: deps.logger(), Section: c.Section}
	n, err := crawler.ClearFailed(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rriharvest.ErrorMessage(err))
		return err
	}

	if n == 0 {
		fmt.Fprintln(deps.Stdout, "No failed URLs.")
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Cleared %d failed URLs; the next crawl will re-attempt them.\n", n)
	return nil
}
