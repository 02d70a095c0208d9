// Package summarizer compresses ranked evidence in two passes: a concurrent
// per-page summary of each page's retained chunks, then a single
// cross-source selection call that deduplicates lines while preserving
// per-page provenance.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/openpredict/evidence/internal/pool"
	"github.com/openpredict/evidence/models"
	"github.com/openpredict/evidence/pkg/capability"
	"github.com/openpredict/evidence/pkg/tokens"
)

const (
	// DefaultSummaryTokens caps the chunk text handed to each per-page
	// summary call.
	DefaultSummaryTokens = 500
	// summaryWorkers bounds concurrent per-page summary calls.
	summaryWorkers = 8
	// errSentinel marks pages with no usable summary.
	errSentinel = "Error"
)

var datePattern = regexp.MustCompile(`\b( on or before | by | on )?\d{1,2} (January|February|March|April|May|June|July|August|September|October|November|December) \d{4}\b`)

// Summarizer runs both summarization passes.
type Summarizer struct {
	Client        capability.Completer
	Model         string
	Logger        *slog.Logger
	Counter       capability.UsageFunc
	SummaryTokens int

	// Truncate trims a string to a token budget. Defaults to a tiktoken
	// encoder; overridable for tests.
	Truncate func(text string, maxTokens int) string
}

// SummarizePages produces a per-page summary of each page's retained chunks,
// concurrently, and returns the pages whose summary succeeded. Pages with no
// retained chunks are marked with the error sentinel and dropped along with
// pages whose call failed or whose summary contains the sentinel.
func (s *Summarizer) SummarizePages(ctx context.Context, question string, pages []*models.SourcePage) []*models.SourcePage {
	questionNoDate := RemoveDateFromQuery(question)

	_ = pool.ForEach(ctx, summaryWorkers, pages, func(ctx context.Context, page *models.SourcePage) error {
		if len(page.ChunksSorted) == 0 {
			page.ChunksSummary = errSentinel
			return nil
		}

		var sb strings.Builder
		for _, chunk := range page.ChunksSorted {
			sb.WriteString("\n…")
			sb.WriteString(chunk)
			sb.WriteString("…\n")
		}
		trimmed := s.truncate(sb.String())

		prompt := fmt.Sprintf(summarizePromptTemplate, questionNoDate, trimmed)
		resp, err := s.Client.Complete(ctx, capability.CompletionRequest{
			Model: s.Model,
			Messages: []capability.Message{
				{Role: "system", Content: "You are a professional journalist and researcher."},
				{Role: "user", Content: prompt},
			},
			Temperature: 0,
		})
		if err != nil {
			s.Logger.Warn("page summary failed", "url", page.URL, "error", err)
			page.ChunksSummary = errSentinel
			return nil
		}
		s.Counter.Count(resp.Usage, s.Model, tokens.CountForModel)
		page.ChunksSummary = resp.Text
		return nil
	})

	var kept []*models.SourcePage
	for _, page := range pages {
		if strings.Contains(page.ChunksSummary, errSentinel) {
			s.Logger.Info("dropping page without usable summary", "url", page.URL, "id", page.ID)
			continue
		}
		kept = append(kept, page)
	}
	return kept
}

// SelectAcrossPages concatenates every surviving page's summary lines, each
// suffixed with its page identity, submits one selection call, and
// reattaches the returned lines to their source pages via the trailing
// identity tag. Pages with no matched line drop out. This pass bounds total
// evidence length; its job is compression and dedup, not elaboration.
func (s *Summarizer) SelectAcrossPages(ctx context.Context, question string, pages []*models.SourcePage) ([]*models.SourcePage, error) {
	var lines []string
	for _, page := range pages {
		for _, line := range strings.Split(page.ChunksSummary, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, AppendTag(line, page.ID))
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	prompt := fmt.Sprintf(selectPromptTemplate, strings.Join(lines, "\n"), question)
	resp, err := s.Client.Complete(ctx, capability.CompletionRequest{
		Model: s.Model,
		Messages: []capability.Message{
			{Role: "system", Content: "You are a professional journalist."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("cross-source selection: %w", err)
	}
	s.Counter.Count(resp.Usage, s.Model, tokens.CountForModel)

	byID := make(map[int]*models.SourcePage, len(pages))
	for _, page := range pages {
		byID[page.ID] = page
	}

	matched := make(map[int]struct{})
	for _, line := range strings.Split(strings.TrimSpace(resp.Text), "\n") {
		tagged, ok := ParseTaggedLine(line)
		if !ok {
			s.Logger.Info("dropping untagged selection line", "line", line)
			continue
		}
		page, ok := byID[tagged.PageID]
		if !ok {
			s.Logger.Info("dropping line with unknown page id", "id", tagged.PageID)
			continue
		}
		if page.FinalText == "" {
			page.FinalText = tagged.Text
		} else {
			page.FinalText += "\n" + tagged.Text
		}
		matched[tagged.PageID] = struct{}{}
	}

	var kept []*models.SourcePage
	for _, page := range pages {
		if _, ok := matched[page.ID]; ok {
			kept = append(kept, page)
		}
	}
	return kept, nil
}

func (s *Summarizer) truncate(text string) string {
	budget := s.SummaryTokens
	if budget <= 0 {
		budget = DefaultSummaryTokens
	}
	if s.Truncate != nil {
		return s.Truncate(text, budget)
	}
	enc, err := tokens.NewEncoder(tokens.DefaultEncoding)
	if err != nil {
		return text
	}
	return enc.Truncate(text, budget)
}

// RemoveDateFromQuery strips a trailing "by/on DD Month YYYY" clause from
// the question before per-page summarization, so the summary stays focused
// on the event rather than the resolution date.
func RemoveDateFromQuery(query string) string {
	return datePattern.ReplaceAllString(query, "")
}
