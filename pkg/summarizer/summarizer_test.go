package summarizer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpredict/evidence/models"
	"github.com/openpredict/evidence/pkg/capability"
)

// scriptedCompleter answers with the first response whose key substring
// appears in the last user message.
type scriptedCompleter struct {
	mu        sync.Mutex
	responses map[string]string
	failOn    string
	calls     int
}

func (f *scriptedCompleter) Complete(_ context.Context, req capability.CompletionRequest) (capability.CompletionResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	prompt := req.Messages[len(req.Messages)-1].Content
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return capability.CompletionResult{}, errors.New("completion backend failed")
	}
	for key, text := range f.responses {
		if strings.Contains(prompt, key) {
			return capability.CompletionResult{Text: text}, nil
		}
	}
	return capability.CompletionResult{Text: "default summary"}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func identityTruncate(text string, _ int) string { return text }

func pageWithChunks(id int, chunks ...string) *models.SourcePage {
	page := models.NewSourcePage(id, "https://example.com/"+string(rune('a'+id)))
	page.ChunksSorted = chunks
	return page
}

func TestSummarizePages_SummarizesAndKeeps(t *testing.T) {
	client := &scriptedCompleter{responses: map[string]string{
		"alpha": "- alpha happened",
		"beta":  "- beta happened",
	}}
	s := &Summarizer{Client: client, Model: "m", Logger: testLogger(), Truncate: identityTruncate}

	pages := []*models.SourcePage{
		pageWithChunks(1, "alpha chunk text"),
		pageWithChunks(2, "beta chunk text"),
	}
	kept := s.SummarizePages(context.Background(), "Will it happen?", pages)

	require.Len(t, kept, 2)
	assert.Equal(t, "- alpha happened", kept[0].ChunksSummary)
	assert.Equal(t, "- beta happened", kept[1].ChunksSummary)
}

func TestSummarizePages_DropsPagesWithoutChunks(t *testing.T) {
	client := &scriptedCompleter{}
	s := &Summarizer{Client: client, Model: "m", Logger: testLogger(), Truncate: identityTruncate}

	pages := []*models.SourcePage{
		pageWithChunks(1),
		pageWithChunks(2, "some chunk"),
	}
	kept := s.SummarizePages(context.Background(), "q", pages)

	require.Len(t, kept, 1)
	assert.Equal(t, 2, kept[0].ID)
	assert.Equal(t, 1, client.calls, "chunkless pages must not cost a completion call")
}

func TestSummarizePages_DropsPagesWhoseCallFails(t *testing.T) {
	client := &scriptedCompleter{failOn: "cursed"}
	s := &Summarizer{Client: client, Model: "m", Logger: testLogger(), Truncate: identityTruncate}

	pages := []*models.SourcePage{
		pageWithChunks(1, "cursed chunk"),
		pageWithChunks(2, "fine chunk"),
	}
	kept := s.SummarizePages(context.Background(), "q", pages)

	require.Len(t, kept, 1)
	assert.Equal(t, 2, kept[0].ID)
}

func TestSummarizePages_DropsSentinelSummaries(t *testing.T) {
	client := &scriptedCompleter{responses: map[string]string{
		"vague": "Error: the text does not contain relevant information",
	}}
	s := &Summarizer{Client: client, Model: "m", Logger: testLogger(), Truncate: identityTruncate}

	kept := s.SummarizePages(context.Background(), "q", []*models.SourcePage{pageWithChunks(1, "vague chunk")})

	assert.Empty(t, kept)
}

func TestSelectAcrossPages_ReattachesLinesByTag(t *testing.T) {
	client := &scriptedCompleter{responses: map[string]string{
		"SEARCH_OUTPUT": "First fact (1)\nSecond fact (2)\nAnother first-page fact (1)",
	}}
	s := &Summarizer{Client: client, Model: "m", Logger: testLogger(), Truncate: identityTruncate}

	pages := []*models.SourcePage{pageWithChunks(1), pageWithChunks(2), pageWithChunks(3)}
	pages[0].ChunksSummary = "- one"
	pages[1].ChunksSummary = "- two"
	pages[2].ChunksSummary = "- three"

	kept, err := s.SelectAcrossPages(context.Background(), "q", pages)

	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, "First fact\nAnother first-page fact", kept[0].FinalText)
	assert.Equal(t, "Second fact", kept[1].FinalText)
}

func TestSelectAcrossPages_DropsUnknownAndUntaggedLines(t *testing.T) {
	client := &scriptedCompleter{responses: map[string]string{
		"SEARCH_OUTPUT": "Good fact (1)\nLine without tag\nGhost fact (99)",
	}}
	s := &Summarizer{Client: client, Model: "m", Logger: testLogger(), Truncate: identityTruncate}

	pages := []*models.SourcePage{pageWithChunks(1)}
	pages[0].ChunksSummary = "- one"

	kept, err := s.SelectAcrossPages(context.Background(), "q", pages)

	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "Good fact", kept[0].FinalText)
}

func TestSelectAcrossPages_NoSummariesShortCircuits(t *testing.T) {
	client := &scriptedCompleter{}
	s := &Summarizer{Client: client, Model: "m", Logger: testLogger(), Truncate: identityTruncate}

	kept, err := s.SelectAcrossPages(context.Background(), "q", nil)

	require.NoError(t, err)
	assert.Nil(t, kept)
	assert.Equal(t, 0, client.calls)
}

func TestSelectAcrossPages_CompletionFailureSurfaces(t *testing.T) {
	client := &scriptedCompleter{failOn: "SEARCH_OUTPUT"}
	s := &Summarizer{Client: client, Model: "m", Logger: testLogger(), Truncate: identityTruncate}

	pages := []*models.SourcePage{pageWithChunks(1)}
	pages[0].ChunksSummary = "- one"

	_, err := s.SelectAcrossPages(context.Background(), "q", pages)

	assert.Error(t, err)
}

func TestRemoveDateFromQuery(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Will X win the election on 5 November 2024?", "Will X win the election?"},
		{"Will the bill pass by 31 December 2024?", "Will the bill pass?"},
		{"Will Y be released on or before 1 March 2025?", "Will Y be released?"},
		{"Will Z happen?", "Will Z happen?"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, RemoveDateFromQuery(c.in), "input %q", c.in)
	}
}
