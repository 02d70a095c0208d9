package models

// TextChunk is a bounded text span sliced from one source page's scraped
// content. It back-references its page by URL and never owns the page.
type TextChunk struct {
	Text string
	URL  string

	// NumTokens is computed lazily by the embedder while batching; it must
	// be set before the chunk is assigned to an embedding batch.
	NumTokens int

	// Embedding stays nil when the chunk's batch failed; such chunks are
	// excluded from ranking.
	Embedding []float32

	// Similarity is a per-query value set by the ranker. It is only
	// meaningful for the ranking pass that assigned it.
	Similarity float64
}
