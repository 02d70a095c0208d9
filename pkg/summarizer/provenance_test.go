package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendTag(t *testing.T) {
	assert.Equal(t, "The vote passed. (3)", AppendTag("The vote passed.", 3))
}

func TestParseTaggedLine(t *testing.T) {
	tagged, ok := ParseTaggedLine("The vote passed. (3)")
	require.True(t, ok)
	assert.Equal(t, "The vote passed.", tagged.Text)
	assert.Equal(t, 3, tagged.PageID)
}

func TestParseTaggedLine_RoundTrip(t *testing.T) {
	tagged, ok := ParseTaggedLine(AppendTag("A fact with (parens) inside", 12))
	require.True(t, ok)
	assert.Equal(t, "A fact with (parens) inside", tagged.Text)
	assert.Equal(t, 12, tagged.PageID)
}

func TestParseTaggedLine_Rejections(t *testing.T) {
	for _, line := range []string{
		"no tag at all",
		"trailing text after tag (3) extra",
		"non-numeric tag (abc)",
		"(5)",
	} {
		_, ok := ParseTaggedLine(line)
		assert.False(t, ok, "line %q", line)
	}
}
