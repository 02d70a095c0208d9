// Package chunker splits scraped page text into overlapping fixed-size
// chunks and computes their embeddings in token-budgeted concurrent batches.
package chunker

import (
	"errors"
	"unicode/utf8"

	"github.com/openpredict/evidence/models"
)

const (
	// DefaultChunkLength is the sliding window size in characters.
	DefaultChunkLength = 300
	// DefaultChunkOverlap is how much consecutive windows share.
	DefaultChunkOverlap = 50
)

// ErrInvalidChunkOverlap reports an overlap that is not smaller than the
// chunk length; the sliding window cannot advance with such a config.
var ErrInvalidChunkOverlap = errors.New("chunk overlap must be smaller than chunk length")

// Chunks slices every page's scraped text into overlapping windows. Pages
// without scraped text contribute nothing. Each chunk back-references its
// page by URL. The window is validated before any page is touched; zero
// length and negative overlap fall back to the defaults.
func Chunks(pages []*models.SourcePage, length, overlap int) ([]*models.TextChunk, error) {
	if length <= 0 {
		length = DefaultChunkLength
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= length {
		return nil, ErrInvalidChunkOverlap
	}

	var chunks []*models.TextChunk
	for _, page := range pages {
		if page.ScrapedText == "" {
			continue
		}
		for _, span := range split(page.ScrapedText, length, overlap) {
			chunks = append(chunks, &models.TextChunk{Text: span, URL: page.URL})
		}
	}
	return chunks, nil
}

// split applies a fixed-length sliding window with overlap. Text at most one
// window long yields a single chunk. Window edges are pulled back to rune
// boundaries so no chunk carries a torn multi-byte character.
func split(text string, length, overlap int) []string {
	if len(text) <= length {
		return []string{text}
	}
	step := length - overlap
	var spans []string
	for start := 0; start < len(text); start += step {
		end := start + length
		if end > len(text) {
			end = len(text)
		}
		spans = append(spans, text[runeFloor(text, start):runeFloor(text, end)])
	}
	return spans
}

// runeFloor backs i up to the nearest rune start so s[..i] and s[i..] are
// both valid UTF-8.
func runeFloor(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
