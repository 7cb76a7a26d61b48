package rriharvest

import (
	"net/url"
	"strings"
)

// Category is a node of a section's category tree.
// Categories are loaded once from configuration and never modified.
type Category struct {
	Path          string      `json:"path" yaml:"path"`
	Name          string      `json:"name" yaml:"name"`
	Subcategories []*Category `json:"subcategories,omitempty" yaml:"subcategories,omitempty"`
}

// Slug returns the last segment of the category path.
// Articles harvested from the category's listings are tagged with it.
func (c *Category) Slug() string {
	p := strings.TrimRight(c.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Walk visits the category and its descendants depth-first in configured
// order, parent before children. Returning false from fn stops the walk.
func (c *Category) Walk(fn func(*Category) bool) bool {
	if !fn(c) {
		return false
	}
	for _, sub := range c.Subcategories {
		if !sub.Walk(fn) {
			return false
		}
	}
	return true
}

// Section is one language area of the site with its own category tree.
type Section struct {
	Key        string      `json:"key" yaml:"key"`
	Name       string      `json:"name" yaml:"name"`
	PathPrefix string      `json:"path_prefix" yaml:"path_prefix"`
	Categories []*Category `json:"categories" yaml:"categories"`
}

// Find returns the category with the given path, searching the whole tree.
// Returns ENOTFOUND if no category has that path.
func (s *Section) Find(path string) (*Category, error) {
	want := strings.TrimRight(path, "/")
	var found *Category
	for _, root := range s.Categories {
		root.Walk(func(c *Category) bool {
			if strings.TrimRight(c.Path, "/") == want {
				found = c
				return false
			}
			return true
		})
		if found != nil {
			return found, nil
		}
	}
	return nil, Errorf(ENOTFOUND, "category %q not found in section %q", path, s.Key)
}

// CategoryCount returns the number of categories in the section's tree.
func (s *Section) CategoryCount() int {
	var n int
	for _, root := range s.Categories {
		root.Walk(func(*Category) bool {
			n++
			return true
		})
	}
	return n
}

// Validate returns an error if the section's tree is malformed.
func (s *Section) Validate() error {
	if s.Key == "" {
		return Errorf(EINVALID, "section key required")
	}
	if !strings.HasPrefix(s.PathPrefix, "/") || !strings.HasSuffix(s.PathPrefix, "/") {
		return Errorf(EINVALID, "section %q: path prefix %q must start and end with /", s.Key, s.PathPrefix)
	}
	if len(s.Categories) == 0 {
		return Errorf(EINVALID, "section %q has no categories", s.Key)
	}

	seen := make(map[string]bool)
	var err error
	for _, root := range s.Categories {
		root.Walk(func(c *Category) bool {
			err = s.validateCategory(c, seen)
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Section) validateCategory(c *Category, seen map[string]bool) error {
	if c == nil {
		return Errorf(EINVALID, "section %q contains an empty category", s.Key)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return Errorf(EINVALID, "section %q: category path %q must be absolute", s.Key, c.Path)
	}
	path := strings.TrimRight(c.Path, "/")
	if !strings.HasPrefix(path+"/", s.PathPrefix) {
		return Errorf(EINVALID, "section %q: category %q is outside prefix %q", s.Key, c.Path, s.PathPrefix)
	}
	if seen[path] {
		return Errorf(EINVALID, "section %q: duplicate category path %q", s.Key, c.Path)
	}
	seen[path] = true
	return nil
}

// Catalog is the static crawl configuration: the site and its sections.
type Catalog struct {
	BaseURL  string     `json:"base_url" yaml:"base_url"`
	Sections []*Section `json:"sections" yaml:"sections"`
}

// Section returns the section with the given key.
// Returns ENOTFOUND if the catalog has no such section.
func (c *Catalog) Section(key string) (*Section, error) {
	for _, s := range c.Sections {
		if s.Key == key {
			return s, nil
		}
	}
	return nil, Errorf(ENOTFOUND, "unknown section %q", key)
}

// Validate returns an error if the catalog cannot drive a crawl.
func (c *Catalog) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Errorf(EINVALID, "base URL %q must be an absolute URL", c.BaseURL)
	}
	if len(c.Sections) == 0 {
		return Errorf(EINVALID, "catalog has no sections")
	}

	keys := make(map[string]bool)
	for _, s := range c.Sections {
		if s == nil {
			return Errorf(EINVALID, "catalog contains an empty section")
		}
		if keys[s.Key] {
			return Errorf(EINVALID, "duplicate section key %q", s.Key)
		}
		keys[s.Key] = true
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ResolveURL returns the absolute URL of a category path on the catalog's site.
func (c *Catalog) ResolveURL(path string) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid base URL: %v", err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", Errorf(EINVALID, "invalid category path %q: %v", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}
