// Package goquery parses rri.ro listing and article pages with goquery.
package goquery

import (
	"fmt"
	"net/url"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/rriharvest"
)

// Ensure Parser implements rriharvest.Parser at compile time.
var _ rriharvest.Parser = (*Parser)(nil)

// Body selectors in priority order. The first one matching non-empty
// text supplies the article content.
var contentSelectors = []string{
	"article .content",
	".article-content",
	".article-body",
	".post-content",
	".entry-content",
	"article p",
}

// Generic containers whose paragraphs are used when no body selector matches.
var containerSelectors = []string{"main", "article", "div.content"}

// Pager links pointing at the following listing page.
var nextSelectors = []string{
	".pagination a.next",
	".pagination li.next a",
	".pager .next a",
	"a.next",
	"li.next a",
	".pagination-next a",
}

var summarySelectors = []string{".lead", ".article-lead", ".summary", ".excerpt"}

var dateSelectors = []string{".date", ".post-date", ".article-date", "time"}

var authorSelectors = []string{".article-author", ".author", "[rel=author]", ".byline"}

// Image sources containing these fragments are site chrome, not article images.
var chromeImageHints = []string{"logo", "icon", "avatar", "banner"}

// Parser parses rri.ro pages.
type Parser struct {
	// PathPrefix restricts listing links to one section, e.g. "/ro_ar/".
	// Empty accepts any path on the page's host.
	PathPrefix string

	// Converter turns content HTML into Markdown. When nil, content is the
	// plain text of each block separated by blank lines.
	Converter rriharvest.Converter

	// Fallbacks are consulted in order when the page selectors cannot locate
	// a field. They also supply missing metadata.
	Fallbacks []rriharvest.Extractor
}

// NewParser creates a Parser for the section rooted at pathPrefix.
func NewParser(pathPrefix string, conv rriharvest.Converter, fallbacks ...rriharvest.Extractor) *Parser {
	return &Parser{
		PathPrefix: pathPrefix,
		Converter:  conv,
		Fallbacks:  fallbacks,
	}
}

// ParseListing extracts article links in document order and the next page.
func (p *Parser) ParseListing(html, pageURL string) (*rriharvest.Listing, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, rriharvest.Errorf(rriharvest.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, rriharvest.Errorf(rriharvest.EEXTRACT, "failed to parse HTML: %v", err)
	}

	listing := &rriharvest.Listing{}
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		resolved := p.sectionLink(base, sel.AttrOr("href", ""))
		if resolved == "" || seen[resolved] {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil || !articlePath.MatchString(u.Path) {
			return
		}
		seen[resolved] = true
		listing.ArticleURLs = append(listing.ArticleURLs, resolved)
	})

	listing.NextPageURL = p.nextPage(doc, base)
	return listing, nil
}

// sectionLink resolves href and returns it only if it stays on the page's
// host inside the section prefix.
func (p *Parser) sectionLink(base *url.URL, href string) string {
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	resolved := resolveURL(base, href)
	if resolved == "" || !isSameHost(base, resolved) {
		return ""
	}
	if p.PathPrefix != "" {
		u, err := url.Parse(resolved)
		if err != nil || !strings.HasPrefix(u.Path, p.PathPrefix) {
			return ""
		}
	}
	return resolved
}

func (p *Parser) nextPage(doc *goquery.Document, base *url.URL) string {
	for _, sel := range []string{"a[rel~=next]", "link[rel~=next]"} {
		if next := p.firstLink(doc.Find(sel), base); next != "" {
			return next
		}
	}
	for _, sel := range nextSelectors {
		if next := p.firstLink(doc.Find(sel), base); next != "" {
			return next
		}
	}

	current := pageNumber(base)
	best, bestPage := "", 0
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		resolved := p.sectionLink(base, sel.AttrOr("href", ""))
		if resolved == "" {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil || !isPaginationLink(u) {
			return
		}
		n := pageNumber(u)
		if n > current && (bestPage == 0 || n < bestPage) {
			best, bestPage = resolved, n
		}
	})
	return best
}

func (p *Parser) firstLink(sel *goquery.Selection, base *url.URL) string {
	var found string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = p.sectionLink(base, s.AttrOr("href", ""))
		return found == ""
	})
	return found
}

// ParseArticle extracts an article from its page.
func (p *Parser) ParseArticle(html, pageURL string) (*rriharvest.Article, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, rriharvest.Errorf(rriharvest.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, rriharvest.Errorf(rriharvest.EEXTRACT, "failed to parse HTML: %v", err)
	}

	fb := &fallback{html: html, extractors: p.Fallbacks}
	article := &rriharvest.Article{URL: pageURL}

	article.Title = firstText(doc, "h1")
	if article.Title == "" {
		article.Title = metaContent(doc, `meta[property="og:title"]`)
	}
	if article.Title == "" {
		article.Title = fb.field(func(r *rriharvest.ExtractResult) string { return r.Title })
	}

	article.Content, err = p.content(doc, fb)
	if err != nil {
		return nil, err
	}

	article.Summary = firstText(doc, summarySelectors...)
	if article.Summary == "" {
		article.Summary = metaContent(doc, `meta[name="description"]`, `meta[property="og:description"]`)
	}
	if article.Summary == "" {
		article.Summary = fb.field(func(r *rriharvest.ExtractResult) string { return r.Description })
	}

	if d, ok := p.date(doc, fb); ok {
		article.Date = &d
	}

	author := metaContent(doc, `meta[name="author"]`)
	if author == "" {
		author = firstText(doc, authorSelectors...)
	}
	if author == "" {
		author = fb.field(func(r *rriharvest.ExtractResult) string { return r.Author })
	}
	article.Author = optional(author)

	article.ImageURL = optional(p.image(doc, base, fb))
	article.AudioURL = optional(audio(doc, base))
	article.SoundcloudURL = optional(soundcloud(doc, base))

	if err := article.Validate(); err != nil {
		return nil, err
	}
	article.ContentHash = fmt.Sprintf("%016x", xxhash.Sum64String(article.Content))
	return article, nil
}

func (p *Parser) content(doc *goquery.Document, fb *fallback) (string, error) {
	for _, sel := range contentSelectors {
		if content, err := p.render(doc.Find(sel)); err != nil || content != "" {
			return content, err
		}
	}

	for _, sel := range containerSelectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		if content, err := p.render(container.Find("p")); err != nil || content != "" {
			return content, err
		}
	}

	contentHTML := fb.field(func(r *rriharvest.ExtractResult) string { return r.ContentHTML })
	if contentHTML == "" {
		return "", nil
	}
	if p.Converter == nil {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
		if err != nil {
			return "", nil
		}
		return strings.TrimSpace(doc.Text()), nil
	}
	md, err := p.Converter.Convert(contentHTML)
	if err != nil {
		return "", rriharvest.Errorf(rriharvest.EEXTRACT, "convert content: %v", err)
	}
	return md, nil
}

// render joins the non-empty blocks of sel into Markdown, or plain text
// when no Converter is set.
func (p *Parser) render(sel *goquery.Selection) (string, error) {
	var blocks []string
	var htmlBlocks []string
	sel.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if paras := s.Find("p"); paras.Length() > 0 {
			paras.Each(func(_ int, para *goquery.Selection) {
				if t := strings.TrimSpace(para.Text()); t != "" {
					blocks = append(blocks, t)
				}
			})
		} else {
			blocks = append(blocks, text)
		}
		if outer, err := goquery.OuterHtml(s); err == nil {
			htmlBlocks = append(htmlBlocks, outer)
		}
	})
	if len(blocks) == 0 {
		return "", nil
	}
	if p.Converter == nil {
		return strings.Join(blocks, "\n\n"), nil
	}
	md, err := p.Converter.Convert(strings.Join(htmlBlocks, "\n"))
	if err != nil {
		return "", rriharvest.Errorf(rriharvest.EEXTRACT, "convert content: %v", err)
	}
	return md, nil
}

func (p *Parser) date(doc *goquery.Document, fb *fallback) (civil.Date, bool) {
	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		if d, ok := parseDate(dt); ok {
			return d, true
		}
	}
	for _, sel := range dateSelectors {
		if d, ok := parseDate(firstText(doc, sel)); ok {
			return d, true
		}
	}
	if d, ok := parseDate(metaContent(doc, `meta[property="article:published_time"]`)); ok {
		return d, true
	}
	if r := fb.result(func(r *rriharvest.ExtractResult) bool { return !r.Date.IsZero() }); r != nil {
		return civil.DateOf(r.Date), true
	}
	return civil.Date{}, false
}

func (p *Parser) image(doc *goquery.Document, base *url.URL, fb *fallback) string {
	if og := metaContent(doc, `meta[property="og:image"]`); og != "" {
		return resolveAsset(base, og)
	}

	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("main").First()
	}
	var found string
	container.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" || isNonHTTPLink(src) || isChromeImage(src) {
			return true
		}
		found = resolveAsset(base, src)
		return false
	})
	if found != "" {
		return found
	}

	if img := fb.field(func(r *rriharvest.ExtractResult) string { return r.Image }); img != "" {
		return resolveAsset(base, img)
	}
	return ""
}

func audio(doc *goquery.Document, base *url.URL) string {
	for _, sel := range []string{"audio[src]", "audio source[src]", "source[src]"} {
		if src := strings.TrimSpace(doc.Find(sel).First().AttrOr("src", "")); src != "" {
			return resolveAsset(base, src)
		}
	}
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := s.AttrOr("href", "")
		if strings.Contains(strings.ToLower(href), ".mp3") || strings.Contains(href, "/audio/") {
			found = resolveAsset(base, href)
			return false
		}
		return true
	})
	return found
}

func soundcloud(doc *goquery.Document, base *url.URL) string {
	var found string
	doc.Find("iframe[src], a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.AttrOr("src", s.AttrOr("href", ""))
		if strings.Contains(strings.ToLower(link), "soundcloud.com") {
			found = resolveAsset(base, link)
			return false
		}
		return true
	})
	return found
}

func isChromeImage(src string) bool {
	lower := strings.ToLower(src)
	for _, hint := range chromeImageHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// firstText returns the trimmed text of the first non-empty match across
// selectors, tried in order.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		var text string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text = strings.Join(strings.Fields(s.Text()), " ")
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// metaContent returns the first non-empty content attribute across selectors.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v := strings.TrimSpace(doc.Find(sel).First().AttrOr("content", "")); v != "" {
			return v
		}
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// fallback runs the extractors lazily, at most once each.
type fallback struct {
	html       string
	extractors []rriharvest.Extractor
	results    []*rriharvest.ExtractResult
	ran        bool
}

func (f *fallback) run() {
	if f.ran {
		return
	}
	f.ran = true
	for _, ext := range f.extractors {
		r, err := ext.Extract(f.html)
		if err != nil || r == nil {
			continue
		}
		f.results = append(f.results, r)
	}
}

// result returns the first extractor result satisfying ok.
func (f *fallback) result(ok func(*rriharvest.ExtractResult) bool) *rriharvest.ExtractResult {
	if len(f.extractors) == 0 {
		return nil
	}
	f.run()
	for _, r := range f.results {
		if ok(r) {
			return r
		}
	}
	return nil
}

// field returns the first non-empty value of get across extractor results.
func (f *fallback) field(get func(*rriharvest.ExtractResult) string) string {
	r := f.result(func(r *rriharvest.ExtractResult) bool { return strings.TrimSpace(get(r)) != "" })
	if r == nil {
		return ""
	}
	return strings.TrimSpace(get(r))
}
