package mock

import "github.com/fwojciec/rriharvest"

var _ rriharvest.Converter = (*Converter)(nil)

// Converter is a mock implementation of rriharvest.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
