// Package research orchestrates the evidence pipeline: plan queries, resolve
// URLs, fetch pages, extract metadata, scrape, chunk, embed, rank, summarize,
// and assemble the report. Stages run strictly phased — every stage joins all
// of its tasks before the next one starts — and per-item failures drop the
// item, never the run.
package research

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/openpredict/evidence/models"
	"github.com/openpredict/evidence/pkg/capability"
	"github.com/openpredict/evidence/pkg/chunker"
	"github.com/openpredict/evidence/pkg/fetcher"
	"github.com/openpredict/evidence/pkg/metadata"
	"github.com/openpredict/evidence/pkg/planner"
	"github.com/openpredict/evidence/pkg/ranker"
	"github.com/openpredict/evidence/pkg/report"
	"github.com/openpredict/evidence/pkg/resolver"
	"github.com/openpredict/evidence/pkg/scraper"
	"github.com/openpredict/evidence/pkg/store"
	"github.com/openpredict/evidence/pkg/summarizer"
)

// Pipeline wires the stages to their capability boundaries. All fields but
// the capabilities and logger are optional.
type Pipeline struct {
	Completion capability.Completer
	Embedding  capability.Embedder
	Search     capability.Searcher
	Logger     *slog.Logger

	CompletionModel string
	EmbeddingModel  string

	Config  models.ResearchConfig
	Counter capability.UsageFunc
	Store   *store.Store
	Now     func() time.Time

	// Tokenizer overrides, for tests.
	CountTokens    func(text string) int
	TruncateTokens func(text string, maxTokens int) string
}

// Result is the outcome of one run. An empty Report with no error is the
// explicit empty-evidence signal: a degraded but valid outcome.
type Result struct {
	Report  string
	Queries []string
	Pages   []*models.SourcePage
	Usage   capability.Usage
}

// Run researches the market question end to end. Only configuration errors
// surface as errors; everything else degrades to a smaller (possibly empty)
// report.
func (p *Pipeline) Run(ctx context.Context, question, marketRules string) (*Result, error) {
	cfg := p.Config
	cfg.Normalize()

	now := p.Now
	if now == nil {
		now = time.Now
	}

	var (
		usageMu sync.Mutex
		usage   capability.Usage
	)
	counter := capability.UsageFunc(func(in, out, total int, model string, tc capability.TokenCountFunc) {
		usageMu.Lock()
		usage.PromptTokens += in
		usage.CompletionTokens += out
		usage.TotalTokens += total
		usageMu.Unlock()
		if p.Counter != nil {
			p.Counter(in, out, total, model, tc)
		}
	})

	// Stage 1: query planning.
	plan := &planner.Planner{Client: p.Completion, Model: p.CompletionModel, Logger: p.Logger, Counter: counter}
	queries := plan.Queries(ctx, question, marketRules)
	if len(queries) == 0 {
		p.Logger.Warn("no queries planned, terminating with empty evidence")
		return &Result{Usage: usage}, nil
	}

	// Stage 2: URL resolution. An invalid per-query cap is a configuration
	// error and surfaces immediately.
	res := &resolver.Resolver{Searcher: p.Search, Logger: p.Logger}
	urls, err := res.Resolve(ctx, queries, cfg.URLsPerQuery)
	if err != nil {
		return nil, err
	}

	pages := make([]*models.SourcePage, 0, len(urls))
	for i, url := range urls {
		pages = append(pages, models.NewSourcePage(i+1, url))
	}

	// Stage 3: fetch.
	f, err := fetcher.New(p.Logger, cfg.FetchBatchSize, cfg.FetchTimeout)
	if err != nil {
		return nil, err
	}
	pages = f.Fetch(ctx, pages)

	// Stage 4: metadata extraction.
	for _, page := range pages {
		metadata.Extract(page, p.Logger)
	}

	// Stage 5: scrape.
	sc := scraper.New(p.Logger, cfg.WeekInterval, cfg.MaxScrapeChars, scraper.WithNow(now))
	pages = sc.Scrape(pages)
	for _, page := range pages {
		if page.ScrapedText != "" {
			p.Logger.Info("page ready for chunking", "id", page.ID, "url", page.URL, "chars", len(page.ScrapedText))
		}
	}

	// Stages 6-7: chunk, embed, rank. An unworkable chunk window is a
	// configuration error and surfaces immediately.
	chunks, err := chunker.Chunks(pages, cfg.ChunkLength, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	if len(chunks) > 0 {
		emb := &chunker.Embedder{
			Client:      p.Embedding,
			Model:       p.EmbeddingModel,
			Logger:      p.Logger,
			Counter:     counter,
			TokenBudget: cfg.EmbedTokenLimit,
			Workers:     cfg.EmbedWorkers,
			CountTokens: p.CountTokens,
		}
		embedded := emb.Embed(ctx, chunks)

		rk := &ranker.Ranker{Client: p.Embedding, Model: p.EmbeddingModel, Logger: p.Logger, Counter: counter}
		sorted, err := rk.Rank(ctx, question, embedded)
		if err != nil {
			p.Logger.Warn("ranking failed, continuing without chunks", "error", err)
			sorted = nil
		}
		if len(sorted) > cfg.MaxChunksTotal {
			sorted = sorted[:cfg.MaxChunksTotal]
		}

		// Reattach surviving chunks to their pages; similarity rank
		// dictates order within each page.
		byURL := make(map[string]*models.SourcePage, len(pages))
		for _, page := range pages {
			byURL[page.URL] = page
		}
		for _, chunk := range sorted {
			if page, ok := byURL[chunk.URL]; ok {
				page.ChunksSorted = append(page.ChunksSorted, chunk.Text)
			}
		}
	}

	// Stage 8: two-pass summarization.
	sum := &summarizer.Summarizer{
		Client:        p.Completion,
		Model:         p.CompletionModel,
		Logger:        p.Logger,
		Counter:       counter,
		SummaryTokens: cfg.SummaryTokens,
		Truncate:      p.TruncateTokens,
	}
	pages = sum.SummarizePages(ctx, question, pages)
	sortByPublicationDate(pages)

	pages, err = sum.SelectAcrossPages(ctx, question, pages)
	if err != nil {
		p.Logger.Warn("cross-source selection failed, terminating with empty evidence", "error", err)
		return &Result{Queries: queries, Usage: usage}, nil
	}
	sortByPublicationDate(pages)

	// Stage 9: report assembly.
	text := report.Assemble(pages, now())

	result := &Result{Report: text, Queries: queries, Pages: pages, Usage: usage}
	p.persist(question, result)
	return result, nil
}

func (p *Pipeline) persist(question string, result *Result) {
	if p.Store == nil {
		return
	}
	runID, err := p.Store.SaveRun(store.Run{
		Question:         question,
		Queries:          result.Queries,
		Report:           result.Report,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		TotalTokens:      result.Usage.TotalTokens,
	}, result.Pages)
	if err != nil {
		p.Logger.Warn("failed to persist run", "error", err)
		return
	}
	p.Logger.Info("run persisted", "run_id", runID, "sources", len(result.Pages))
}

// sortByPublicationDate orders pages oldest first; unparseable dates sort as
// the zero time and so come first.
func sortByPublicationDate(pages []*models.SourcePage) {
	sort.SliceStable(pages, func(i, j int) bool {
		return metadata.ParseDate(pages[i].PublicationDate).Before(metadata.ParseDate(pages[j].PublicationDate))
	})
}
