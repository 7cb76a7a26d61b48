package mock

import "github.com/fwojciec/rriharvest"

var _ rriharvest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of rriharvest.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*rriharvest.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*rriharvest.ExtractResult, error) {
	return e.ExtractFn(html)
}
