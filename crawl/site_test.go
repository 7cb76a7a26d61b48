package crawl_test

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/rriharvest"
	"github.com/fwojciec/rriharvest/mock"
)

const baseURL = "https://www.rri.ro"

// site is an in-memory rri.ro: listing pages by URL, article pages for
// every other URL, and per-URL injected failures.
type site struct {
	mu       sync.Mutex
	listings map[string]*rriharvest.Listing
	fail     map[string]error
	failOnce map[string][]error
	fetches  map[string]int
	order    []string

	// onFetch runs before every fetch.
	onFetch func(url string)
}

func newSite() *site {
	return &site{
		listings: make(map[string]*rriharvest.Listing),
		fail:     make(map[string]error),
		failOnce: make(map[string][]error),
		fetches:  make(map[string]int),
	}
}

// listing registers a listing page at path with the given article paths.
func (s *site) listing(path, next string, articles ...string) {
	l := &rriharvest.Listing{}
	for _, a := range articles {
		l.ArticleURLs = append(l.ArticleURLs, baseURL+a)
	}
	if next != "" {
		l.NextPageURL = baseURL + next
	}
	s.listings[baseURL+path] = l
}

func (s *site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			if s.onFetch != nil {
				s.onFetch(url)
			}
			if err := ctx.Err(); err != nil {
				return "", err
			}

			s.mu.Lock()
			defer s.mu.Unlock()
			s.fetches[url]++
			s.order = append(s.order, url)

			if errs := s.failOnce[url]; len(errs) > 0 {
				s.failOnce[url] = errs[1:]
				return "", errs[0]
			}
			if err := s.fail[url]; err != nil {
				return "", err
			}
			return "<html>" + url + "</html>", nil
		},
	}
}

func (s *site) parser() *mock.Parser {
	return &mock.Parser{
		ParseListingFn: func(html, pageURL string) (*rriharvest.Listing, error) {
			l, ok := s.listings[pageURL]
			if !ok {
				return &rriharvest.Listing{}, nil
			}
			return l, nil
		},
		ParseArticleFn: func(html, pageURL string) (*rriharvest.Article, error) {
			if !strings.Contains(html, pageURL) {
				return nil, rriharvest.Errorf(rriharvest.EEXTRACT, "unexpected page")
			}
			return &rriharvest.Article{
				URL:     pageURL,
				Title:   "Title " + pageURL,
				Content: "Content of " + pageURL,
			}, nil
		},
	}
}

func (s *site) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[baseURL+path]
}

func (s *site) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *site) fetched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func abs(path string) string {
	return baseURL + path
}
