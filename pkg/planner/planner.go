// Package planner turns one market question into a bounded, deduplicated set
// of search queries via two completion calls: an oversized candidate plan,
// then a rerank/truncate pass.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/openpredict/evidence/pkg/capability"
	"github.com/openpredict/evidence/pkg/tokens"
)

const (
	// CandidateQueries is the oversized first-pass plan size.
	CandidateQueries = 12
	// MaxQueries bounds the reranked query set.
	MaxQueries = 7
	// DefaultMaxAttempts bounds retries over the whole two-call sequence.
	DefaultMaxAttempts = 2
)

const planPromptTemplate = `
Your goal is to prepare a research plan for %s.

The plan must consist of %d search engine queries separated by commas.
Return ONLY the queries, separated by commas and without quotes.
The queries must be phrased as concise, but descriptive questions that will help you find relevant information about the event and its date.
`

const rerankPrompt = `
Evaluate the queries and decide which ones will provide the best data to answer the question. Do not modify the queries.
Select only the best seven queries, in order of relevance.

OUTPUT_FORMAT:
* Your output response must be only a single JSON object
* The JSON must contain one field: "queries"
    - "queries": A 7 item array of the generated search engine queries
* Include only the JSON object in your output
`

var jsonFence = regexp.MustCompile("(?s)^\n?```\n?json\n?\\s*(\\{.*?\\})\n?```\n?$")

// Planner produces the query set for a question.
type Planner struct {
	Client      capability.Completer
	Model       string
	Logger      *slog.Logger
	Counter     capability.UsageFunc
	MaxAttempts int
}

// Queries plans and reranks search queries for the question, using the
// market rules as decision context. It retries the whole sequence up to
// MaxAttempts times and returns an empty slice when every attempt fails;
// callers must treat that as "no evidence available".
func (p *Planner) Queries(ctx context.Context, question, marketRules string) []string {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		queries, err := p.fetchQueries(ctx, question, marketRules)
		if err != nil {
			p.Logger.Warn("query planning attempt failed", "attempt", attempt, "error", err)
			continue
		}
		return queries
	}

	p.Logger.Warn("query planning exhausted all attempts", "attempts", attempts)
	return nil
}

func (p *Planner) fetchQueries(ctx context.Context, question, marketRules string) ([]string, error) {
	planPrompt := fmt.Sprintf(planPromptTemplate, question, CandidateQueries)

	plan, err := p.complete(ctx, []capability.Message{
		{Role: "system", Content: "You are a professional researcher."},
		{Role: "user", Content: fmt.Sprintf("Get the market rules for the prediction market question %s", question)},
		{Role: "assistant", Content: marketRules},
		{Role: "user", Content: planPrompt},
	}, 1.0)
	if err != nil {
		return nil, fmt.Errorf("plan queries: %w", err)
	}

	reranked, err := p.complete(ctx, []capability.Message{
		{Role: "system", Content: "You are a professional researcher."},
		{Role: "user", Content: planPrompt},
		{Role: "assistant", Content: plan},
		{Role: "user", Content: rerankPrompt},
	}, 0.0)
	if err != nil {
		return nil, fmt.Errorf("rerank queries: %w", err)
	}

	var parsed struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal([]byte(TrimJSONFence(reranked)), &parsed); err != nil {
		return nil, fmt.Errorf("parse reranked queries: %w", err)
	}
	if len(parsed.Queries) == 0 {
		return nil, fmt.Errorf("reranker returned no queries")
	}

	return dedupe(parsed.Queries, MaxQueries), nil
}

func (p *Planner) complete(ctx context.Context, messages []capability.Message, temperature float32) (string, error) {
	resp, err := p.Client.Complete(ctx, capability.CompletionRequest{
		Model:       p.Model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	p.Counter.Count(resp.Usage, p.Model, tokens.CountForModel)
	return resp.Text, nil
}

// TrimJSONFence strips a surrounding ```json code fence when present,
// returning the inner object; anything else passes through unchanged.
func TrimJSONFence(s string) string {
	if m := jsonFence.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// dedupe drops exact-string duplicates, keeps first occurrences, and bounds
// the result to max entries.
func dedupe(queries []string, max int) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if len(out) == max {
			break
		}
	}
	return out
}
