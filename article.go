package rriharvest

import (
	"encoding/json"
	"time"

	"cloud.google.com/go/civil"
)

// Article is a harvested news article.
// Optional fields are nil when the page does not carry them.
type Article struct {
	URL           string      `json:"url"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Summary       string      `json:"summary"`
	Date          *civil.Date `json:"date"`
	Author        *string     `json:"author"`
	Category      string      `json:"category"`
	ImageURL      *string     `json:"image_url"`
	AudioURL      *string     `json:"audio_url"`
	SoundcloudURL *string     `json:"soundcloud_url"`
	ContentHash   string      `json:"content_hash"`
	CrawledAt     time.Time   `json:"crawled_at"`
}

// Validate returns an error if the article lacks its required fields.
func (a *Article) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	if a.Title == "" {
		return Errorf(EEXTRACT, "article title not found: %s", a.URL)
	}
	if a.Content == "" {
		return Errorf(EEXTRACT, "article content not found: %s", a.URL)
	}
	return nil
}

// ArticleIndex is an insertion-ordered collection of articles keyed by URL.
// Stored articles are never replaced.
type ArticleIndex struct {
	byURL map[string]*Article
	order []string
}

// NewArticleIndex returns an empty index.
func NewArticleIndex() *ArticleIndex {
	return &ArticleIndex{byURL: make(map[string]*Article)}
}

// Upsert stores the article if its URL is not present yet.
// Returns false without changes if the URL is already stored.
func (x *ArticleIndex) Upsert(a *Article) bool {
	if _, ok := x.byURL[a.URL]; ok {
		return false
	}
	x.byURL[a.URL] = a
	x.order = append(x.order, a.URL)
	return true
}

// Get returns the article stored under url, or nil.
func (x *ArticleIndex) Get(url string) *Article {
	return x.byURL[url]
}

// Has reports whether an article is stored under url.
func (x *ArticleIndex) Has(url string) bool {
	_, ok := x.byURL[url]
	return ok
}

// Len returns the number of stored articles.
func (x *ArticleIndex) Len() int {
	return len(x.order)
}

// All returns the stored articles in insertion order.
func (x *ArticleIndex) All() []*Article {
	articles := make([]*Article, 0, len(x.order))
	for _, u := range x.order {
		articles = append(articles, x.byURL[u])
	}
	return articles
}

// MarshalJSON encodes the index as an ordered array of articles.
func (x *ArticleIndex) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.All())
}

// UnmarshalJSON decodes an ordered array of articles.
// Later duplicates of a URL are dropped.
func (x *ArticleIndex) UnmarshalJSON(data []byte) error {
	var articles []*Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return err
	}
	*x = *NewArticleIndex()
	for _, a := range articles {
		if a == nil || a.URL == "" {
			continue
		}
		x.Upsert(a)
	}
	return nil
}
