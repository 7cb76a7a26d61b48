package yaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/rriharvest"
	"github.com/fwojciec/rriharvest/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	catalog, err := yaml.DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, "https://www.rri.ro", catalog.BaseURL)

	t.Run("ro_ar section", func(t *testing.T) {
		t.Parallel()

		section, err := catalog.Section("ro_ar")
		require.NoError(t, err)
		assert.Equal(t, "/ro_ar/", section.PathPrefix)
		assert.Equal(t, 23, section.CategoryCount())

		habarli, err := section.Find("/ro_ar/actualitati/habarli")
		require.NoError(t, err)
		assert.Equal(t, "habarli", habarli.Slug())
	})

	t.Run("actualitate section", func(t *testing.T) {
		t.Parallel()

		section, err := catalog.Section("actualitate")
		require.NoError(t, err)
		assert.Equal(t, "/actualitate/", section.PathPrefix)
		assert.Equal(t, 11, section.CategoryCount())
		require.Len(t, section.Categories, 1)
		assert.Equal(t, "/actualitate", section.Categories[0].Path)
	})
}

func TestParseCatalog(t *testing.T) {
	t.Parallel()

	t.Run("parses nested categories", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
base_url: https://www.rri.ro
sections:
  - key: fr
    name: Français
    path_prefix: /fr/
    categories:
      - path: /fr/actualite
        name: Actualité
        subcategories:
          - path: /fr/actualite/nouvelles
            name: Nouvelles
`)

		catalog, err := yaml.ParseCatalog(data)

		require.NoError(t, err)
		require.Len(t, catalog.Sections, 1)
		root := catalog.Sections[0].Categories[0]
		assert.Equal(t, "Actualité", root.Name)
		require.Len(t, root.Subcategories, 1)
		assert.Equal(t, "/fr/actualite/nouvelles", root.Subcategories[0].Path)
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.ParseCatalog([]byte("sections: [unclosed"))

		require.Error(t, err)
		assert.Equal(t, rriharvest.EINVALID, rriharvest.ErrorCode(err))
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.ParseCatalog([]byte("base_url: https://www.rri.ro\nbase: x\n"))

		require.Error(t, err)
		assert.Equal(t, rriharvest.EINVALID, rriharvest.ErrorCode(err))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.ParseCatalog(nil)

		require.Error(t, err)
		assert.Equal(t, rriharvest.EINVALID, rriharvest.ErrorCode(err))
	})

	t.Run("rejects category outside section prefix", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
base_url: https://www.rri.ro
sections:
  - key: ro_ar
    path_prefix: /ro_ar/
    categories:
      - path: /actualitate/stiri
`)

		_, err := yaml.ParseCatalog(data)

		require.Error(t, err)
		assert.Equal(t, rriharvest.EINVALID, rriharvest.ErrorCode(err))
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("loads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "catalog.yaml")
		data := "base_url: https://www.rri.ro\nsections:\n  - key: en\n    path_prefix: /en/\n    categories:\n      - path: /en/news\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		catalog, err := yaml.LoadCatalog(path)

		require.NoError(t, err)
		_, err = catalog.Section("en")
		require.NoError(t, err)
	})

	t.Run("returns ENOTFOUND for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
		assert.Equal(t, rriharvest.ENOTFOUND, rriharvest.ErrorCode(err))
	})
}

func TestResolveCatalog(t *testing.T) {
	t.Parallel()

	t.Run("explicit path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "catalog.yaml")
		data := "base_url: https://example.org\nsections:\n  - key: en\n    path_prefix: /en/\n    categories:\n      - path: /en/news\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		catalog, source, err := yaml.ResolveCatalog(path)

		require.NoError(t, err)
		assert.Equal(t, path, source)
		assert.Equal(t, "https://example.org", catalog.BaseURL)
	})

	t.Run("explicit missing path is an error", func(t *testing.T) {
		t.Parallel()

		_, _, err := yaml.ResolveCatalog(filepath.Join(t.TempDir(), "nope.yaml"))

		require.Error(t, err)
	})
}
