package rriharvest_test

import (
	"testing"

	"github.com/fwojciec/rriharvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSection() *rriharvest.Section {
	return &rriharvest.Section{
		Key:        "ro_ar",
		Name:       "Aromanian",
		PathPrefix: "/ro_ar/",
		Categories: []*rriharvest.Category{
			{
				Path: "/ro_ar/actualitati",
				Subcategories: []*rriharvest.Category{
					{Path: "/ro_ar/actualitati/habarli"},
					{Path: "/ro_ar/actualitati/focus"},
				},
			},
			{Path: "/ro_ar/ascultat-la-caftari"},
		},
	}
}

func TestCategory_Slug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "habarli", (&rriharvest.Category{Path: "/ro_ar/actualitati/habarli"}).Slug())
	assert.Equal(t, "habarli", (&rriharvest.Category{Path: "/ro_ar/actualitati/habarli/"}).Slug())
	assert.Equal(t, "actualitate", (&rriharvest.Category{Path: "/actualitate"}).Slug())
}

func TestCategory_Walk(t *testing.T) {
	t.Parallel()

	t.Run("visits parent before children in order", func(t *testing.T) {
		t.Parallel()

		var paths []string
		testSection().Categories[0].Walk(func(c *rriharvest.Category) bool {
			paths = append(paths, c.Path)
			return true
		})

		assert.Equal(t, []string{"/ro_ar/actualitati", "/ro_ar/actualitati/habarli", "/ro_ar/actualitati/focus"}, paths)
	})

	t.Run("stops when fn returns false", func(t *testing.T) {
		t.Parallel()

		var n int
		completed := testSection().Categories[0].Walk(func(c *rriharvest.Category) bool {
			n++
			return n < 2
		})

		assert.False(t, completed)
		assert.Equal(t, 2, n)
	})
}

func TestSection_Find(t *testing.T) {
	t.Parallel()

	t.Run("finds nested category", func(t *testing.T) {
		t.Parallel()

		c, err := testSection().Find("/ro_ar/actualitati/focus/")

		require.NoError(t, err)
		assert.Equal(t, "/ro_ar/actualitati/focus", c.Path)
	})

	t.Run("returns ENOTFOUND for unknown path", func(t *testing.T) {
		t.Parallel()

		_, err := testSection().Find("/ro_ar/nope")

		require.Error(t, err)
		assert.Equal(t, rriharvest.ENOTFOUND, rriharvest.ErrorCode(err))
	})
}

func TestSection_CategoryCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, testSection().CategoryCount())
}

func TestSection_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts well-formed section", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, testSection().Validate())
	})

	t.Run("accepts root equal to prefix", func(t *testing.T) {
		t.Parallel()

		s := &rriharvest.Section{
			Key:        "actualitate",
			PathPrefix: "/actualitate/",
			Categories: []*rriharvest.Category{{Path: "/actualitate"}},
		}

		require.NoError(t, s.Validate())
	})

	cases := map[string]func(*rriharvest.Section){
		"missing key":        func(s *rriharvest.Section) { s.Key = "" },
		"prefix without /":   func(s *rriharvest.Section) { s.PathPrefix = "ro_ar" },
		"no categories":      func(s *rriharvest.Section) { s.Categories = nil },
		"relative path":      func(s *rriharvest.Section) { s.Categories[1].Path = "ro_ar/x" },
		"outside prefix":     func(s *rriharvest.Section) { s.Categories[1].Path = "/actualitate/stiri" },
		"prefix lookalike":   func(s *rriharvest.Section) { s.Categories[1].Path = "/ro_arx/stiri" },
		"duplicate category": func(s *rriharvest.Section) { s.Categories[1].Path = "/ro_ar/actualitati/habarli" },
		"nil subcategory": func(s *rriharvest.Section) {
			s.Categories[0].Subcategories = append(s.Categories[0].Subcategories, nil)
		},
	}
	for name, mutate := range cases {
		t.Run("rejects "+name, func(t *testing.T) {
			t.Parallel()

			s := testSection()
			mutate(s)

			err := s.Validate()
			require.Error(t, err)
			assert.Equal(t, rriharvest.EINVALID, rriharvest.ErrorCode(err))
		})
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	catalog := &rriharvest.Catalog{
		BaseURL:  "https://www.rri.ro",
		Sections: []*rriharvest.Section{testSection()},
	}

	t.Run("validates", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, catalog.Validate())
	})

	t.Run("looks up sections", func(t *testing.T) {
		t.Parallel()

		s, err := catalog.Section("ro_ar")
		require.NoError(t, err)
		assert.Equal(t, "Aromanian", s.Name)

		_, err = catalog.Section("fr")
		assert.Equal(t, rriharvest.ENOTFOUND, rriharvest.ErrorCode(err))
	})

	t.Run("resolves category URLs", func(t *testing.T) {
		t.Parallel()

		u, err := catalog.ResolveURL("/ro_ar/actualitati/habarli")

		require.NoError(t, err)
		assert.Equal(t, "https://www.rri.ro/ro_ar/actualitati/habarli", u)
	})

	t.Run("rejects relative base URL", func(t *testing.T) {
		t.Parallel()

		bad := &rriharvest.Catalog{BaseURL: "www.rri.ro", Sections: []*rriharvest.Section{testSection()}}

		assert.Equal(t, rriharvest.EINVALID, rriharvest.ErrorCode(bad.Validate()))
	})

	t.Run("rejects duplicate section keys", func(t *testing.T) {
		t.Parallel()

		bad := &rriharvest.Catalog{BaseURL: "https://www.rri.ro", Sections: []*rriharvest.Section{testSection(), testSection()}}

		assert.Equal(t, rriharvest.EINVALID, rriharvest.ErrorCode(bad.Validate()))
	})
}
