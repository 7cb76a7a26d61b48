package rriharvest

// Listing is the result of parsing a category listing page.
type Listing struct {
	// ArticleURLs holds absolute article URLs in page order, without duplicates.
	ArticleURLs []string

	// NextPageURL is the absolute URL of the following listing page,
	// or empty on the last page.
	NextPageURL string
}

// Parser turns fetched HTML into listings and articles.
type Parser interface {
	// ParseListing extracts article links and the next-page link.
	ParseListing(html, pageURL string) (*Listing, error)

	// ParseArticle extracts an article. Returns EEXTRACT when the title or
	// content cannot be located. The returned article has no category set.
	ParseArticle(html, pageURL string) (*Article, error)
}
