package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/rriharvest"
	"github.com/fwojciec/rriharvest/crawl"
	"github.com/fwojciec/rriharvest/goquery"
	"github.com/fwojciec/rriharvest/htmltomarkdown"
	lochttp "github.com/fwojciec/rriharvest/http"
	"github.com/fwojciec/rriharvest/readability"
	rslog "github.com/fwojciec/rriharvest/slog"
	"github.com/fwojciec/rriharvest/trafilatura"
)

// urlWidth is the display width of URLs in progress lines.
const urlWidth = 90

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	section, err := deps.Catalog.Section(c.Section)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rriharvest.ErrorMessage(err))
		return err
	}

	categories := section.Categories
	if c.Category != "" {
		category, err := section.Find(c.Category)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rriharvest.ErrorMessage(err))
			return err
		}
		categories = []*rriharvest.Category{category}
	}

	store, closeStore, err := openStore(deps, &c.StateFlags)
	if err != nil {
		return err
	}
	defer closeStore()

	crawler := c.crawler(deps, section, store)

	fmt.Fprintf(deps.Stdout, "Crawling %s (%d categories) into %s\n", section.Key, len(categories), c.dir())
	result, err := crawler.Run(deps.Ctx, categories)
	if err != nil {
		if result != nil && errors.Is(err, context.Canceled) {
			fmt.Fprintf(deps.Stdout, "Interrupted: %d new articles saved\n", result.NewArticles)
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Done: %d new articles, %d new failures (%d articles, %d failed in total)\n",
		result.NewArticles, result.NewFailures, result.Stats.Articles, result.Stats.Failed)
	return nil
}

func (c *CrawlCmd) crawler(deps *Dependencies, section *rriharvest.Section, store rriharvest.SnapshotStore) *crawl.Crawler {
	logger := deps.logger()
	clock := deps.clock()

	transport := deps.Fetcher
	if transport == nil {
		transport = lochttp.NewFetcher(lochttp.WithTimeout(c.Timeout))
	}
	fetcher := crawl.NewRateLimitedFetcher(rslog.NewLoggingFetcher(transport, logger), c.Delay, clock)

	parser := goquery.NewParser(section.PathPrefix,
		htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(deps.Catalog.BaseURL)),
		trafilatura.NewExtractor(),
		readability.NewExtractor(),
	)

	var retryDelays []time.Duration
	if c.Retries > 0 {
		retryDelays = crawl.BackoffDelays(c.Retries)
	}

	return &crawl.Crawler{
		Store: store,
		Traverser: &crawl.Traverser{
			Fetcher:     fetcher,
			Parser:      rslog.NewLoggingParser(parser, logger),
			Clock:       clock,
			BaseURL:     deps.Catalog.BaseURL,
			MaxPages:    c.MaxPages,
			RetryDelays: retryDelays,
			Progress:    printProgress(deps.Stdout),
			Logger:      logger,
		},
		Clock:           clock,
		Logger:          logger,
		Section:         section.Key,
		CheckpointEvery: c.CheckpointEvery,
	}
}

func printProgress(w io.Writer) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCategoryStarted:
			fmt.Fprintf(w, "%s\n", event.Category)
		case crawl.ProgressListingRead:
			fmt.Fprintf(w, "  page %s: %d articles\n", crawl.TruncateURL(event.URL, urlWidth), event.Found)
		case crawl.ProgressListingFailed:
			fmt.Fprintf(w, "  page %s failed: %v\n", crawl.TruncateURL(event.URL, urlWidth), event.Error)
		case crawl.ProgressPageLimit:
			fmt.Fprintf(w, "  stopped after %d pages\n", event.Found)
		case crawl.ProgressPageRepeated:
			fmt.Fprintf(w, "  stopped after %d pages: %s already read\n", event.Found, crawl.TruncateURL(event.URL, urlWidth))
		case crawl.ProgressArticleStored:
			fmt.Fprintf(w, "  + %s\n", crawl.TruncateURL(event.URL, urlWidth))
		case crawl.ProgressArticleFailed:
			fmt.Fprintf(w, "  skip %s: %v\n", crawl.TruncateURL(event.URL, urlWidth), event.Error)
		}
	}
}
