package chunker

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

type fakeEmbedder struct {
	mu      sync.Mutex
	batches [][]string
	failOn  string
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string, inputs []string) ([][]float32, capability.Usage, error) {
	f.mu.Lock()
	f.batches = append(f.batches, inputs)
	f.mu.Unlock()

	vectors := make([][]float32, len(inputs))
	for i, input := range inputs {
		if f.failOn != "" && strings.Contains(input, f.failOn) {
			return nil, capability.Usage{}, errors.New("embedding backend rejected input")
		}
		vectors[i] = []float32{float32(len(input)), 1}
	}
	return vectors, capability.Usage{PromptTokens: len(inputs), TotalTokens: len(inputs)}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func charCount(text string) int { return len(text) }

func newChunks(texts ...string) []*models.TextChunk {
	chunks := make([]*models.TextChunk, len(texts))
	for i, text := range texts {
		chunks[i] = &models.TextChunk{Text: text, URL: "u"}
	}
	return chunks
}

func TestEmbed_AssignsVectorsInInputOrder(t *testing.T) {
	client := &fakeEmbedder{}
	e := &Embedder{Client: client, Model: "m", Logger: testLogger(), CountTokens: charCount}

	embedded := e.Embed(context.Background(), newChunks("aa", "bbbb", "cccccc"))

	require.Len(t, embedded, 3)
	assert.Equal(t, "aa", embedded[0].Text)
	assert.Equal(t, []float32{2, 1}, embedded[0].Embedding)
	assert.Equal(t, []float32{6, 1}, embedded[2].Embedding)
}

func TestEmbed_BatchesRespectTokenBudget(t *testing.T) {
	client := &fakeEmbedder{}
	e := &Embedder{Client: client, Model: "m", Logger: testLogger(), TokenBudget: 10, CountTokens: charCount}

	chunks := newChunks("aaaa", "bbbb", "cccc", "dd")
	e.Embed(context.Background(), chunks)

	require.Len(t, client.batches, 2)
	for _, batch := range client.batches {
		total := 0
		for _, input := range batch {
			total += len(input)
		}
		assert.LessOrEqual(t, total, 10)
	}
	for _, chunk := range chunks {
		assert.Equal(t, len(chunk.Text), chunk.NumTokens)
	}
}

func TestEmbed_OversizedChunkGetsItsOwnBatch(t *testing.T) {
	client := &fakeEmbedder{}
	e := &Embedder{Client: client, Model: "m", Logger: testLogger(), TokenBudget: 5, Workers: 1, CountTokens: charCount}

	e.Embed(context.Background(), newChunks("aaaaaaaaaa", "bb"))

	require.Len(t, client.batches, 2)
	assert.Equal(t, []string{"aaaaaaaaaa"}, client.batches[0])
}

func TestEmbed_FailedBatchChunksExcluded(t *testing.T) {
	client := &fakeEmbedder{failOn: "poison"}
	e := &Embedder{Client: client, Model: "m", Logger: testLogger(), TokenBudget: 10, CountTokens: charCount}

	embedded := e.Embed(context.Background(), newChunks("good text", "poisoned", "also fine"))

	texts := make([]string, len(embedded))
	for i, chunk := range embedded {
		texts[i] = chunk.Text
	}
	assert.NotContains(t, texts, "poisoned")
	assert.Contains(t, texts, "good text")
	assert.Contains(t, texts, "also fine")
}

func TestEmbed_EmptyInput(t *testing.T) {
	e := &Embedder{Client: &fakeEmbedder{}, Model: "m", Logger: testLogger(), CountTokens: charCount}
	assert.Nil(t, e.Embed(context.Background(), nil))
}
