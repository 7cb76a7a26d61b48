// Package bloom remembers which listing pages a traversal has already read,
// so a pagination chain that loops back on itself terminates.
package bloom

import (
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a Bloom filter over page URLs.
// URLs differing only by fragment are treated as the same page.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected pages
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a page URL.
func (f *Filter) Add(pageURL string) {
	f.f.AddString(pageKey(pageURL))
}

// Test returns true if the page might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(pageURL string) bool {
	return f.f.TestString(pageKey(pageURL))
}

func pageKey(pageURL string) string {
	if i := strings.IndexByte(pageURL, '#'); i != -1 {
		return pageURL[:i]
	}
	return pageURL
}
