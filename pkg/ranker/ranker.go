// Package ranker orders embedded chunks by inner-product similarity against
// the question embedding. The similarity index is built fresh for every
// ranking call and is never shared or reused across runs.
package ranker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/openpredict/evidence/models"
	"github.com/openpredict/evidence/pkg/capability"
	"github.com/openpredict/evidence/pkg/tokens"
)

// DefaultMaxChunksTotal is the global cap callers apply to the sorted
// sequence.
const DefaultMaxChunksTotal = 50

// Ranker scores chunks against a query.
type Ranker struct {
	Client  capability.Embedder
	Model   string
	Logger  *slog.Logger
	Counter capability.UsageFunc
}

// Rank embeds the query once, scores every embedded chunk, and returns the
// full sequence sorted by descending similarity with each chunk's score
// recorded. Chunks without embeddings must not be passed in.
func (r *Ranker) Rank(ctx context.Context, query string, chunks []*models.TextChunk) ([]*models.TextChunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	vectors, usage, err := r.Client.Embed(ctx, r.Model, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	r.Counter.Count(usage, r.Model, tokens.CountForModel)
	queryVec := vectors[0]

	idx := newFlatIndex(len(queryVec))
	for _, chunk := range chunks {
		idx.add(chunk.Embedding)
	}
	scores := idx.search(queryVec)

	sorted := make([]*models.TextChunk, len(chunks))
	copy(sorted, chunks)
	for i, chunk := range sorted {
		chunk.Similarity = scores[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity > sorted[j].Similarity
	})

	r.Logger.Info("ranked chunks", "count", len(sorted))
	return sorted, nil
}

// flatIndex is a minimal in-memory inner-product index: vectors are stored
// flat and scored exhaustively against a single query.
type flatIndex struct {
	dim     int
	vectors [][]float32
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{dim: dim}
}

func (idx *flatIndex) add(v []float32) {
	idx.vectors = append(idx.vectors, v)
}

func (idx *flatIndex) search(query []float32) []float64 {
	scores := make([]float64, len(idx.vectors))
	for i, v := range idx.vectors {
		scores[i] = innerProduct(query, v)
	}
	return scores
}

func innerProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
