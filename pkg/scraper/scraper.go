// Package scraper reduces fetched HTML to readable plain text. The primary
// strategy lets readability find the main content; when that yields too
// little text, a manual strategy strips structural tags and re-renders the
// whole document. Pages older than the cutoff window are excluded up front.
package scraper

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/jaytaylor/html2text"
	"github.com/pemistahl/lingua-go"

	"github.com/openpredict/evidence/models"
	"github.com/openpredict/evidence/pkg/metadata"
)

const (
	// DefaultWeekInterval is the age cutoff: pages published earlier are
	// skipped, undated pages are always included.
	DefaultWeekInterval = 4
	// DefaultMaxChars caps the scraped text length.
	DefaultMaxChars = 10000
	// MinContentLength is the threshold below which the fallback strategy
	// kicks in.
	MinContentLength = 300
)

// structuralTags are removed before the manual re-render; they never carry
// article content.
var structuralTags = []string{
	"script", "style", "header", "footer", "aside", "nav", "form",
	"button", "iframe", "input", "textarea", "select", "option", "label",
	"fieldset", "legend", "img", "audio", "video", "source", "track",
	"canvas", "svg", "object", "param", "embed", "link",
	".breadcrumb", ".pagination", ".nav", ".ad", ".sidebar", ".popup",
	".modal", ".social-icons", ".hamburger-menu",
}

var whitespace = regexp.MustCompile(`\s+`)

// Scraper turns page HTML into bounded plain text.
type Scraper struct {
	logger       *slog.Logger
	weekInterval int
	maxChars     int
	now          func() time.Time
	detector     lingua.LanguageDetector
}

// Option tweaks a Scraper.
type Option func(*Scraper)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

// New builds a scraper. Zero weekInterval and maxChars fall back to the
// defaults.
func New(logger *slog.Logger, weekInterval, maxChars int, opts ...Option) *Scraper {
	if weekInterval <= 0 {
		weekInterval = DefaultWeekInterval
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	s := &Scraper{
		logger:       logger,
		weekInterval: weekInterval,
		maxChars:     maxChars,
		now:          time.Now,
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Spanish, lingua.French, lingua.German).
			Build(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape extracts plain text for every page inside the age window and
// returns the pages that remain in the working set. Pages without HTML and
// pages older than the cutoff drop out; a page that survives the window but
// defeats both extraction strategies stays in the set with empty text and is
// excluded later at the chunking stage.
func (s *Scraper) Scrape(pages []*models.SourcePage) []*models.SourcePage {
	cutoff := s.now().AddDate(0, 0, -7*s.weekInterval)

	var kept []*models.SourcePage
	for _, page := range pages {
		if page.HTML == "" {
			s.logger.Info("no html to scrape", "url", page.URL)
			continue
		}

		published := metadata.ParseDate(page.PublicationDate)
		if !published.IsZero() && !published.After(cutoff) {
			s.logger.Info("page older than cutoff, skipping",
				"url", page.URL, "published", page.PublicationDate, "weeks", s.weekInterval)
			continue
		}

		text := s.extract(page)
		if text != "" {
			if len(text) > s.maxChars {
				text = text[:runeFloor(text, s.maxChars)]
			}
			page.ScrapedText = text
			s.detectLanguage(page)
		}
		kept = append(kept, page)
	}
	return kept
}

// extract runs the primary readability strategy with the manual fallback
// and the title/description last resort. Returns "" when the page is
// unscrapeable.
func (s *Scraper) extract(page *models.SourcePage) string {
	text := s.readableText(page)
	if len(text) >= MinContentLength {
		return text
	}

	s.logger.Info("readability text too short, trying manual strategy",
		"url", page.URL, "length", len(text))
	text = s.manualText(page)
	if len(text) >= MinContentLength {
		return text
	}

	if page.Title == "n/a" && page.Description == "n/a" {
		s.logger.Info("scraped text too short and no title or description, dropping",
			"url", page.URL, "length", len(text))
		return ""
	}
	s.logger.Info("scraped text too short, prefixing title and description",
		"url", page.URL, "length", len(text))
	return page.Title + ". " + page.Description + ". " + text
}

// readableText lets readability isolate the main content, then renders it to
// plain text with links, images, and emphasis stripped.
func (s *Scraper) readableText(page *models.SourcePage) string {
	pageURL, err := url.Parse(page.URL)
	if err != nil {
		s.logger.Warn("unparseable page url", "url", page.URL, "error", err)
		return ""
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(page.HTML), pageURL)
	if err != nil {
		s.logger.Info("readability extraction failed", "url", page.URL, "error", err)
		return ""
	}

	return s.toPlainText(article.Content, page.URL)
}

// manualText strips structural tags from the raw document and renders what
// is left.
func (s *Scraper) manualText(page *models.SourcePage) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		s.logger.Warn("html parse failed in manual scrape", "url", page.URL, "error", err)
		return ""
	}

	doc.Find(strings.Join(structuralTags, ",")).Remove()

	html, err := doc.Html()
	if err != nil {
		s.logger.Warn("html re-render failed", "url", page.URL, "error", err)
		return ""
	}
	return s.toPlainText(html, page.URL)
}

func (s *Scraper) toPlainText(html, pageURL string) string {
	text, err := html2text.FromString(html, html2text.Options{TextOnly: true})
	if err != nil {
		s.logger.Info("text rendering failed", "url", pageURL, "error", err)
		return ""
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// runeFloor backs i up to the nearest rune start so the truncation never
// tears a multi-byte character.
func runeFloor(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func (s *Scraper) detectLanguage(page *models.SourcePage) {
	lang, ok := s.detector.DetectLanguageOf(page.ScrapedText)
	if !ok {
		return
	}
	page.Language = lang.String()
	s.logger.Info("detected page language", "url", page.URL, "language", page.Language)
}
