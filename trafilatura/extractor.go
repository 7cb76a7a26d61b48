// Package trafilatura extracts article content and metadata with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/rriharvest"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements rriharvest.Extractor at compile time.
var _ rriharvest.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content with the
// metadata trafilatura found for it.
func (e *Extractor) Extract(rawHTML string) (*rriharvest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, rriharvest.Errorf(rriharvest.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeImages:  true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, rriharvest.Errorf(rriharvest.EEXTRACT, "trafilatura: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	meta := result.Metadata
	return &rriharvest.ExtractResult{
		Title:       meta.Title,
		ContentHTML: contentHTML,
		Author:      meta.Author,
		Description: meta.Description,
		Image:       meta.Image,
		Date:        meta.Date,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
