package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpredict/evidence/models"
)

func pageWithText(id int, url, text string) *models.SourcePage {
	page := models.NewSourcePage(id, url)
	page.ScrapedText = text
	return page
}

func TestChunks_SingleChunkForShortText(t *testing.T) {
	pages := []*models.SourcePage{pageWithText(1, "u1", "short text")}

	chunks, err := Chunks(pages, 300, 50)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0].Text)
	assert.Equal(t, "u1", chunks[0].URL)
}

func TestChunks_SlidingWindowWithOverlap(t *testing.T) {
	text := strings.Repeat("a", 700)
	pages := []*models.SourcePage{pageWithText(1, "u1", text)}

	chunks, err := Chunks(pages, 300, 50)

	// step 250: [0,300) [250,550) [500,700)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0].Text, 300)
	assert.Len(t, chunks[1].Text, 300)
	assert.Len(t, chunks[2].Text, 200)
}

func TestChunks_ConsecutiveChunksShareOverlap(t *testing.T) {
	var sb strings.Builder
	for sb.Len() < 650 {
		sb.WriteString("0123456789")
	}
	text := sb.String()
	pages := []*models.SourcePage{pageWithText(1, "u1", text)}

	chunks, err := Chunks(pages, 300, 50)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	tail := chunks[0].Text[len(chunks[0].Text)-50:]
	head := chunks[1].Text[:50]
	assert.Equal(t, tail, head)
}

func TestChunks_SkipsPagesWithoutText(t *testing.T) {
	pages := []*models.SourcePage{
		pageWithText(1, "u1", ""),
		pageWithText(2, "u2", "has content"),
	}

	chunks, err := Chunks(pages, 300, 50)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "u2", chunks[0].URL)
}

func TestChunks_ZeroConfigFallsBackToDefaults(t *testing.T) {
	text := strings.Repeat("b", 400)
	pages := []*models.SourcePage{pageWithText(1, "u1", text)}

	chunks, err := Chunks(pages, 0, -1)

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Text, DefaultChunkLength)
}

func TestChunks_RejectsOverlapNotSmallerThanLength(t *testing.T) {
	pages := []*models.SourcePage{pageWithText(1, "u1", strings.Repeat("c", 500))}

	cases := []struct{ length, overlap int }{
		{40, 45},  // overlap beyond length
		{40, 40},  // window cannot advance
		{40, 300}, // overlap beyond length and default
		{40, -1},  // default overlap still too wide for the window
	}
	for _, c := range cases {
		chunks, err := Chunks(pages, c.length, c.overlap)
		assert.ErrorIs(t, err, ErrInvalidChunkOverlap, "length=%d overlap=%d", c.length, c.overlap)
		assert.Nil(t, chunks)
	}
}

func TestChunks_SlicesOnRuneBoundaries(t *testing.T) {
	// Two-byte runes with an odd window length force every raw edge into
	// the middle of a character.
	text := strings.Repeat("é", 300)
	pages := []*models.SourcePage{pageWithText(1, "u1", text)}

	chunks, err := Chunks(pages, 301, 50)

	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Text), "chunk %d is not valid UTF-8", i)
	}
}
