package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/rriharvest"
)

// Ensure LoggingParser implements rriharvest.Parser.
var _ rriharvest.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with logging.
type LoggingParser struct {
	next   rriharvest.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next rriharvest.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// ParseListing delegates to the wrapped parser and logs what was found.
func (p *LoggingParser) ParseListing(html, pageURL string) (listing *rriharvest.Listing, err error) {
	defer func(begin time.Time) {
		var found int
		var next string
		if listing != nil {
			found = len(listing.ArticleURLs)
			next = listing.NextPageURL
		}
		logResult(p.logger, "parse listing", err,
			"url", pageURL,
			"articles", found,
			"next", next,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.ParseListing(html, pageURL)
}

// ParseArticle delegates to the wrapped parser and logs the result.
func (p *LoggingParser) ParseArticle(html, pageURL string) (article *rriharvest.Article, err error) {
	defer func(begin time.Time) {
		var title string
		var size int
		if article != nil {
			title = article.Title
			size = len(article.Content)
		}
		logResult(p.logger, "parse article", err,
			"url", pageURL,
			"title", title,
			"bytes", size,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.ParseArticle(html, pageURL)
}
