package mock

import "github.com/fwojciec/rriharvest"

var _ rriharvest.Parser = (*Parser)(nil)

// Parser is a mock implementation of rriharvest.Parser.
type Parser struct {
	ParseListingFn func(html, pageURL string) (*rriharvest.Listing, error)
	ParseArticleFn func(html, pageURL string) (*rriharvest.Article, error)
}

func (p *Parser) ParseListing(html, pageURL string) (*rriharvest.Listing, error) {
	return p.ParseListingFn(html, pageURL)
}

func (p *Parser) ParseArticle(html, pageURL string) (*rriharvest.Article, error) {
	return p.ParseArticleFn(html, pageURL)
}
