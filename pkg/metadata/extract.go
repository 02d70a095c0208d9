// Package metadata recovers title, description, publisher, and publication
// date from fetched HTML. Embedded JSON-LD blocks are the preferred source;
// an ordered list of known meta-tag aliases is the fallback. Extraction is a
// pure function of the HTML: the same input always yields the same fields.
package metadata

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/openpredict/evidence/models"
)

const unknown = "n/a"

// Extract parses the page's HTML once and fills its title, description,
// publisher, and publication date. Pages without HTML are left at their
// defaults with a logged note. Malformed JSON-LD blocks are skipped, never
// fatal.
func Extract(page *models.SourcePage, logger *slog.Logger) {
	if page.HTML == "" {
		logger.Info("no html to extract metadata from", "url", page.URL)
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		logger.Warn("html parse failed", "url", page.URL, "error", err)
		return
	}

	scripts := jsonLDBlocks(doc, page.URL, logger)

	page.Title = extractTitle(doc)
	page.Description = extractDescription(doc)
	page.Publisher = extractPublisher(doc, scripts)
	page.PublicationDate = extractDate(doc, scripts)
}

// jsonLDBlocks collects every parseable JSON-LD script on the page, in
// document order.
func jsonLDBlocks(doc *goquery.Document, url string, logger *slog.Logger) []any {
	var blocks []any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			logger.Info("skipping malformed json-ld block", "url", url, "error", err)
			return
		}
		blocks = append(blocks, data)
	})
	return blocks
}

func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if content := metaContent(doc, "title"); content != "" {
		return content
	}
	return unknown
}

func extractDescription(doc *goquery.Document) string {
	if content := metaContent(doc, "description"); content != "" {
		return content
	}
	return unknown
}

func extractPublisher(doc *goquery.Document, scripts []any) string {
	for _, data := range scripts {
		if publisher := findPublisher(data); publisher != unknown {
			return publisher
		}
	}
	if content := metaContent(doc, "publisher"); content != "" {
		return content
	}
	return unknown
}

func extractDate(doc *goquery.Document, scripts []any) string {
	for _, data := range scripts {
		if date := findReleaseDate(firstDictFromList(data)); date != "" {
			return FormatDate(date)
		}
	}
	for _, name := range ReleaseDateNames {
		if content := metaContent(doc, name); content != "" {
			return FormatDate(content)
		}
	}
	return unknown
}

// metaContent returns the content of the first meta tag whose name or
// property attribute matches, trimmed.
func metaContent(doc *goquery.Document, name string) string {
	sel := doc.Find(`meta[name="` + name + `"]`)
	if sel.Length() == 0 {
		sel = doc.Find(`meta[property="` + name + `"]`)
	}
	content, _ := sel.First().Attr("content")
	return strings.TrimSpace(content)
}

// findPublisher walks a decoded JSON-LD value looking for a publisher (or
// author) entry and returns its name.
func findPublisher(data any) string {
	switch v := data.(type) {
	case map[string]any:
		if pub, ok := v["publisher"]; ok {
			return entityName(pub)
		}
		if author, ok := v["author"]; ok {
			return entityName(author)
		}
	case []any:
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if pub, ok := m["publisher"]; ok {
				return entityName(pub)
			}
			if author, ok := m["author"]; ok {
				return entityName(author)
			}
		}
	}
	return unknown
}

// entityName extracts a name from a JSON-LD entity that may be a single
// object or a list of objects.
func entityName(entity any) string {
	switch v := entity.(type) {
	case map[string]any:
		if name, ok := v["name"].(string); ok && name != "" {
			return name
		}
		return "Unknown name"
	case []any:
		var names []string
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if name, ok := m["name"].(string); ok && name != "" {
				names = append(names, name)
			} else {
				names = append(names, "Unknown name")
			}
		}
		if len(names) > 0 {
			return strings.Join(names, ", ")
		}
	}
	return unknown
}

// findReleaseDate looks up the first release-date key present in a decoded
// JSON-LD dictionary.
func findReleaseDate(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	for _, name := range ReleaseDateNames {
		if raw, ok := m[name]; ok {
			if s, ok := raw.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// firstDictFromList unwraps a JSON-LD list to its first dictionary; any
// other shape passes through.
func firstDictFromList(data any) any {
	if list, ok := data.([]any); ok && len(list) > 0 {
		if dict, ok := list[0].(map[string]any); ok {
			return dict
		}
	}
	return data
}
