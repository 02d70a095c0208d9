// Package capability defines the external collaborator boundaries the
// pipeline consumes: text completion, embeddings, web search, and the
// optional usage counter. Stages depend on these interfaces only; the
// concrete OpenAI and Google implementations live alongside them.
package capability

import "context"

// Message is one role-tagged entry of a completion conversation.
type Message struct {
	Role    string
	Content string
}

// Usage carries the token counters reported by a completion or embedding
// call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionRequest is the full input of one completion call.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
}

// CompletionResult is the text plus usage counters of one completion call.
type CompletionResult struct {
	Text  string
	Usage Usage
}

// Completer is the text-generation boundary.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// Embedder is the embedding boundary. Implementations must preserve input
// order in the returned vectors.
type Embedder interface {
	Embed(ctx context.Context, model string, inputs []string) ([][]float32, Usage, error)
}

// Searcher is the search-engine boundary: a query in, a ranked list of URLs
// out.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]string, error)
}

// TokenCountFunc counts tokens of a text for a model, handed to the usage
// counter so callers can recount with their own tokenizer.
type TokenCountFunc func(text, model string) int

// UsageFunc is invoked after every completion/embedding call. It is purely
// observational and must never affect control flow; nil is a valid, common
// state.
type UsageFunc func(inputTokens, outputTokens, totalTokens int, model string, tokenCounter TokenCountFunc)

// Count invokes fn when non-nil.
func (fn UsageFunc) Count(u Usage, model string, tc TokenCountFunc) {
	if fn == nil {
		return
	}
	fn(u.PromptTokens, u.CompletionTokens, u.TotalTokens, model, tc)
}
