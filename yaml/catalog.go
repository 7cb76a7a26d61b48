// Package yaml loads the crawl catalog from YAML.
package yaml

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/fwojciec/rriharvest"
	"gopkg.in/yaml.v3"
)

// AppName names the application's XDG config directory.
const AppName = "rriharvest"

// CatalogFile is the catalog file name inside the config directory.
const CatalogFile = "catalog.yaml"

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultCatalog returns the built-in catalog of rri.ro sections.
func DefaultCatalog() (*rriharvest.Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes and validates a catalog. Unknown keys are rejected.
func ParseCatalog(data []byte) (*rriharvest.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var catalog rriharvest.Catalog
	if err := dec.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, rriharvest.Errorf(rriharvest.EINVALID, "catalog is empty")
		}
		return nil, rriharvest.Errorf(rriharvest.EINVALID, "invalid catalog: %v", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// LoadCatalog reads and validates the catalog at path.
func LoadCatalog(path string) (*rriharvest.Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, rriharvest.Errorf(rriharvest.ENOTFOUND, "catalog file not found: %s", path)
	}
	if err != nil {
		return nil, rriharvest.Errorf(rriharvest.EINVALID, "cannot read catalog: %v", err)
	}
	return ParseCatalog(data)
}

// ConfigPath returns the catalog location in the XDG config directory.
// On Linux: ~/.config/rriharvest/catalog.yaml
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, CatalogFile)
}

// ResolveCatalog loads the catalog from explicit when set, otherwise from
// the XDG config directory when a file exists there, otherwise the built-in
// catalog. It returns the source it used ("builtin" for the latter).
func ResolveCatalog(explicit string) (*rriharvest.Catalog, string, error) {
	if explicit != "" {
		catalog, err := LoadCatalog(explicit)
		return catalog, explicit, err
	}
	if path := ConfigPath(); fileExists(path) {
		catalog, err := LoadCatalog(path)
		return catalog, path, err
	}
	catalog, err := DefaultCatalog()
	return catalog, "builtin", err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
