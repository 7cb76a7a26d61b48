package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/rriharvest"
	"github.com/fwojciec/rriharvest/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Catalog *rriharvest.Catalog
	Fetcher rriharvest.Fetcher
	Clock   rriharvest.Clock
}

func (d *Dependencies) clock() rriharvest.Clock {
	if d.Clock == nil {
		return crawl.SystemClock{}
	}
	return d.Clock
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `type:"path" help:"Catalog file (defaults to the XDG config file, then the built-in catalog)"`
	Verbose bool   `short:"v" help:"Log every fetch, parse and save"`

	Crawl       CrawlCmd       `cmd:"" help:"Harvest new articles of a section"`
	Stats       StatsCmd       `cmd:"" help:"Show counts for saved crawl state"`
	RetryFailed RetryFailedCmd `cmd:"" name:"retry-failed" help:"Forget failed URLs so the next crawl re-attempts them"`
	Sections    SectionsCmd    `cmd:"" help:"List configured sections"`
	Correspond  CorrespondCmd  `cmd:"" help:"Match articles of two sections by shared image"`
}

// StateFlags select the section and where its crawl state lives.
type StateFlags struct {
	Section string `short:"s" default:"ro_ar" help:"Section key"`
	Output  string `short:"o" type:"path" help:"State directory (default output_<section>)"`
	Store   string `enum:"json,sqlite" default:"json" help:"State backend (json, sqlite)"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	StateFlags `embed:""`

	MaxPages        int           `default:"100" help:"Listing pages read per category (0 = unlimited)"`
	Category        string        `short:"c" help:"Crawl only this category path"`
	Delay           time.Duration `default:"1s" help:"Minimum interval between requests"`
	Timeout         time.Duration `default:"30s" help:"HTTP request timeout"`
	CheckpointEvery int           `default:"10" help:"New articles between checkpoints"`
	Retries         int           `default:"0" help:"Retries for timeouts, connection failures, 429 and 5xx"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct {
	StateFlags `embed:""`

	JSON bool `help:"Print the report as JSON"`
}

// RetryFailedCmd is the "retry-failed" subcommand.
type RetryFailedCmd struct {
	StateFlags `embed:""`
}

// SectionsCmd is the "sections" subcommand.
type SectionsCmd struct{}

// CorrespondCmd is the "correspond" subcommand.
type CorrespondCmd struct {
	Source string `arg:"" type:"path" help:"State directory of the source section"`
	Target string `arg:"" type:"path" help:"State directory of the target section"`
	Out    string `default:"correspondences.json" help:"Output file (- for stdout)"`
	Store  string `enum:"json,sqlite" default:"json" help:"State backend of both directories (json, sqlite)"`
}
