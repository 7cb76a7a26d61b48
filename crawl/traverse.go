package crawl

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/rriharvest"
	"github.com/fwojciec/rriharvest/bloom"
)

// Sizing for the per-category listing cycle guard.
const (
	listingPagesExpected     = 10000
	listingFalsePositiveRate = 0.0001
)

// Traverser walks a category tree, reading every listing page and
// harvesting every article not already recorded in the snapshot.
type Traverser struct {
	Fetcher rriharvest.Fetcher
	Parser  rriharvest.Parser
	Clock   rriharvest.Clock

	// BaseURL resolves category paths into listing URLs.
	BaseURL string

	// MaxPages caps listing pages read per category. Zero means no cap.
	MaxPages int

	// RetryDelays enables retrying retryable transport failures before a
	// URL is marked failed. Nil means a single attempt.
	RetryDelays []time.Duration

	Progress ProgressFunc

	// Logger receives retry notices. Nil discards them.
	Logger *slog.Logger
}

// ProgressEvent reports progress during a traversal.
type ProgressEvent struct {
	Type     ProgressType
	Category string
	URL      string
	Found    int
	Error    error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressCategoryStarted ProgressType = iota
	ProgressListingRead
	ProgressListingFailed
	ProgressPageLimit
	ProgressPageRepeated
	ProgressArticleStored
	ProgressArticleFailed
)

// ProgressFunc is a callback for reporting traversal progress.
type ProgressFunc func(event ProgressEvent)

// Traverse returns the articles newly harvested from category and its
// subcategories. Listings are read in page order and articles in listing
// order; subcategories follow their parent, depth-first.
//
// Each yielded article has already been stored in snap and its URL marked
// visited. URLs already visited or failed in snap are never fetched. A
// failing article is marked failed and skipped; it never ends the sequence.
// The sequence ends early when the consumer stops or ctx is canceled.
func (t *Traverser) Traverse(ctx context.Context, category *rriharvest.Category, snap *rriharvest.Snapshot) iter.Seq[*rriharvest.Article] {
	return func(yield func(*rriharvest.Article) bool) {
		t.traverseCategory(ctx, category, snap, yield)
	}
}

func (t *Traverser) traverseCategory(ctx context.Context, category *rriharvest.Category, snap *rriharvest.Snapshot, yield func(*rriharvest.Article) bool) bool {
	if ctx.Err() != nil {
		return false
	}
	t.emit(ProgressEvent{Type: ProgressCategoryStarted, Category: category.Path})

	firstPage, err := t.listingURL(category)
	if err != nil {
		t.emit(ProgressEvent{Type: ProgressListingFailed, Category: category.Path, URL: category.Path, Error: err})
	} else if !t.readListings(ctx, category, firstPage, snap, yield) {
		return false
	}

	for _, sub := range category.Subcategories {
		if !t.traverseCategory(ctx, sub, snap, yield) {
			return false
		}
	}
	return true
}

// readListings follows the category's pagination chain. Listing pages are
// not recorded in snap: they are re-read on every run to find new articles.
func (t *Traverser) readListings(ctx context.Context, category *rriharvest.Category, pageURL string, snap *rriharvest.Snapshot, yield func(*rriharvest.Article) bool) bool {
	read := bloom.NewFilter(listingPagesExpected, listingFalsePositiveRate)
	pages := 0

	for pageURL != "" {
		if t.MaxPages > 0 && pages >= t.MaxPages {
			t.emit(ProgressEvent{Type: ProgressPageLimit, Category: category.Path, URL: pageURL, Found: pages})
			break
		}
		if ctx.Err() != nil {
			return false
		}
		read.Add(pageURL)
		pages++

		listing, err := t.readListing(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			t.emit(ProgressEvent{Type: ProgressListingFailed, Category: category.Path, URL: pageURL, Error: err})
			break
		}
		t.emit(ProgressEvent{Type: ProgressListingRead, Category: category.Path, URL: pageURL, Found: len(listing.ArticleURLs)})

		for _, articleURL := range listing.ArticleURLs {
			if snap.Progress.Seen(articleURL) {
				continue
			}
			article, ok := t.harvest(ctx, category, articleURL, snap)
			if ctx.Err() != nil {
				return false
			}
			if ok && !yield(article) {
				return false
			}
		}

		// A repeated page is either a real cycle or a filter false
		// positive. Both end the chain, so report which URL stopped it.
		next := listing.NextPageURL
		if next != "" && read.Test(next) {
			t.emit(ProgressEvent{Type: ProgressPageRepeated, Category: category.Path, URL: next, Found: pages})
			break
		}
		pageURL = next
	}
	return true
}

func (t *Traverser) readListing(ctx context.Context, pageURL string) (*rriharvest.Listing, error) {
	html, err := t.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return t.Parser.ParseListing(html, pageURL)
}

// harvest fetches and parses one article and records the outcome in snap.
// A canceled context leaves the URL unrecorded so the next run retries it.
func (t *Traverser) harvest(ctx context.Context, category *rriharvest.Category, articleURL string, snap *rriharvest.Snapshot) (*rriharvest.Article, bool) {
	article, err := t.fetchArticle(ctx, category, articleURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false
		}
		snap.Progress.MarkFailed(articleURL)
		t.emit(ProgressEvent{Type: ProgressArticleFailed, Category: category.Path, URL: articleURL, Error: err})
		return nil, false
	}

	if !snap.Record(article) {
		return nil, false
	}
	t.emit(ProgressEvent{Type: ProgressArticleStored, Category: category.Path, URL: articleURL})
	return article, true
}

func (t *Traverser) fetchArticle(ctx context.Context, category *rriharvest.Category, articleURL string) (*rriharvest.Article, error) {
	html, err := t.fetch(ctx, articleURL)
	if err != nil {
		return nil, err
	}
	article, err := t.Parser.ParseArticle(html, articleURL)
	if err != nil {
		return nil, err
	}

	article.URL = articleURL
	article.Category = category.Slug()
	if article.CrawledAt.IsZero() {
		article.CrawledAt = t.clock().Now().UTC()
	}
	if err := article.Validate(); err != nil {
		return nil, err
	}
	return article, nil
}

func (t *Traverser) fetch(ctx context.Context, url string) (string, error) {
	return FetchWithRetry(ctx, url, t.Fetcher.Fetch, t.clock(), t.logRetry, t.RetryDelays)
}

func (t *Traverser) logRetry(format string, args ...any) {
	if t.Logger != nil {
		t.Logger.Info(fmt.Sprintf(format, args...))
	}
}

func (t *Traverser) listingURL(category *rriharvest.Category) (string, error) {
	if t.BaseURL == "" {
		return category.Path, nil
	}
	catalog := rriharvest.Catalog{BaseURL: t.BaseURL}
	return catalog.ResolveURL(category.Path)
}

func (t *Traverser) clock() rriharvest.Clock {
	if t.Clock == nil {
		return SystemClock{}
	}
	return t.Clock
}

func (t *Traverser) emit(event ProgressEvent) {
	if t.Progress != nil {
		t.Progress(event)
	}
}
