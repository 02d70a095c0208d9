package chunker

import (
	"context"
	"log/slog"

	"github.com/openpredict/evidence/internal/pool"
	"github.com/openpredict/evidence/models"
	"github.com/openpredict/evidence/pkg/capability"
	"github.com/openpredict/evidence/pkg/tokens"
)

const (
	// DefaultTokenBudget bounds the cumulative token count per embedding
	// batch.
	DefaultTokenBudget = 8192
	// DefaultWorkers caps concurrent embedding calls to respect upstream
	// rate limits.
	DefaultWorkers = 5
)

// Embedder computes chunk embeddings in concurrent token-budgeted batches.
type Embedder struct {
	Client      capability.Embedder
	Model       string
	Logger      *slog.Logger
	Counter     capability.UsageFunc
	TokenBudget int
	Workers     int

	// CountTokens overrides the tokenizer, for tests. Defaults to the
	// model's tiktoken encoding.
	CountTokens func(text string) int
}

// Embed batches the chunks under the token budget and embeds the batches
// concurrently. A failed batch is logged and its chunks are left without
// embeddings; only successfully embedded chunks are returned, in input
// order.
func (e *Embedder) Embed(ctx context.Context, chunks []*models.TextChunk) []*models.TextChunk {
	if len(chunks) == 0 {
		return nil
	}

	batches := e.batch(chunks)
	e.Logger.Info("embedding chunks", "chunks", len(chunks), "batches", len(batches))

	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	_ = pool.ForEach(ctx, workers, batches, func(ctx context.Context, batch []*models.TextChunk) error {
		inputs := make([]string, len(batch))
		for i, chunk := range batch {
			inputs[i] = chunk.Text
		}
		vectors, usage, err := e.Client.Embed(ctx, e.Model, inputs)
		if err != nil {
			e.Logger.Warn("embedding batch failed", "size", len(batch), "error", err)
			return nil
		}
		e.Counter.Count(usage, e.Model, tokens.CountForModel)
		for i, chunk := range batch {
			chunk.Embedding = vectors[i]
		}
		return nil
	})

	embedded := make([]*models.TextChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Embedding != nil {
			embedded = append(embedded, chunk)
		}
	}
	return embedded
}

// batch accumulates chunks into batches whose cumulative token count never
// exceeds the budget. Token counts are computed here, before any batch
// assignment.
func (e *Embedder) batch(chunks []*models.TextChunk) [][]*models.TextChunk {
	budget := e.TokenBudget
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	count := e.CountTokens
	if count == nil {
		count = func(text string) int { return tokens.CountForModel(text, e.Model) }
	}

	var (
		batches      [][]*models.TextChunk
		current      []*models.TextChunk
		currentCount int
	)
	for _, chunk := range chunks {
		chunk.NumTokens = count(chunk.Text)
		if len(current) > 0 && currentCount+chunk.NumTokens > budget {
			batches = append(batches, current)
			current = nil
			currentCount = 0
		}
		current = append(current, chunk)
		currentCount += chunk.NumTokens
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
