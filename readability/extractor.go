// Package readability extracts article content with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/rriharvest"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements rriharvest.Extractor at compile time.
var _ rriharvest.Extractor = (*Extractor)(nil)

// Extractor is the second content fallback of the page parser. It scores
// the DOM for the densest text block, which suits pages trafilatura rejects.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*rriharvest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, rriharvest.Errorf(rriharvest.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, rriharvest.Errorf(rriharvest.EEXTRACT, "readability: %v", err)
	}

	result := &rriharvest.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
		Author:      strings.TrimSpace(article.Byline),
		Description: strings.TrimSpace(article.Excerpt),
		Image:       article.Image,
	}
	if article.PublishedTime != nil {
		result.Date = *article.PublishedTime
	}
	return result, nil
}
