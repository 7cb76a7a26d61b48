package rriharvest

import "time"

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string

	// Metadata found alongside the content. Zero values mean not found.
	Author      string
	Description string
	Image       string
	Date        time.Time
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// The page parser falls back to extractors when site-specific selectors
// cannot locate an article body.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
