package goquery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// articlePath matches the numeric article suffix used by rri.ro, e.g.
// /ro_ar/actualitati/habarli/titlu-id12345.html.
var articlePath = regexp.MustCompile(`-id\d+\.html$`)

// pagePath matches path-style pagination, e.g. /actualitate/stiri/page/3.
var pagePath = regexp.MustCompile(`/page/(\d+)/?$`)

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed or if the resolved URL
// is self-referential (same as base URL after stripping fragment).
// Fragments are stripped from the resolved URL for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// resolveAsset resolves src against base. Unlike resolveURL it keeps
// self-references and returns src unchanged when it cannot be parsed.
func resolveAsset(base *url.URL, src string) string {
	src = strings.TrimSpace(src)
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

// isSameHost checks if the resolved URL has the same host as the base URL.
// This uses exact host matching - subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// pageNumber returns the listing page number encoded in u, or 1.
func pageNumber(u *url.URL) int {
	if v := u.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if m := pagePath.FindStringSubmatch(u.Path); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 1
}

// isPaginationLink reports whether u carries an explicit page number.
func isPaginationLink(u *url.URL) bool {
	return u.Query().Has("page") || pagePath.MatchString(u.Path)
}
