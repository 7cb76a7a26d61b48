package rriharvest

import "strings"

// Correspondence links an article to articles of another section that
// share its image, typically translations of the same story.
type Correspondence struct {
	SourceURL   string   `json:"source_url"`
	SourceTitle string   `json:"source_title"`
	ImageURL    string   `json:"image_url"`
	TargetURLs  []string `json:"target_urls"`
}

// MatchByImage pairs source articles with target articles carrying the same
// image URL. Articles without an image or with inline data: images never match.
// Results follow source order; target URLs follow target order.
func MatchByImage(source, target *ArticleIndex) []Correspondence {
	byImage := make(map[string][]string)
	for _, a := range target.All() {
		if img, ok := matchableImage(a); ok {
			byImage[img] = append(byImage[img], a.URL)
		}
	}

	var out []Correspondence
	for _, a := range source.All() {
		img, ok := matchableImage(a)
		if !ok {
			continue
		}
		targets := byImage[img]
		if len(targets) == 0 {
			continue
		}
		out = append(out, Correspondence{
			SourceURL:   a.URL,
			SourceTitle: a.Title,
			ImageURL:    img,
			TargetURLs:  append([]string(nil), targets...),
		})
	}
	return out
}

func matchableImage(a *Article) (string, bool) {
	if a.ImageURL == nil {
		return "", false
	}
	img := strings.TrimSpace(*a.ImageURL)
	if img == "" || strings.HasPrefix(img, "data:") {
		return "", false
	}
	return img, true
}
