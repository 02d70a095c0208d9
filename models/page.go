// Package models defines the data structures shared by the research pipeline stages.
package models

import (
	"fmt"
	"strings"
)

// SourcePage represents one fetched candidate URL and everything derived from
// it as it moves through the pipeline. A page is owned by exactly one stage at
// a time; stages mutate disjoint pages concurrently but never share a page.
type SourcePage struct {
	// ID is assigned once at discovery time and never changes. It is the
	// provenance key the summarizer threads through free text.
	ID  int    `json:"id"`
	URL string `json:"url"`

	// HTML is set by the fetcher and consumed by the scraper.
	HTML string `json:"-"`

	Title           string `json:"title"`
	Description     string `json:"description"`
	Publisher       string `json:"publisher"`
	PublicationDate string `json:"publication_date"`
	Language        string `json:"language,omitempty"`

	ScrapedText string `json:"-"`

	// ChunksSorted holds the page's surviving chunks in descending
	// similarity order, filled in after ranking.
	ChunksSorted []string `json:"-"`

	// ChunksSummary is the per-page summary from summarization stage 1.
	// The sentinel value "Error" marks a page with nothing to summarize.
	ChunksSummary string `json:"-"`

	// FinalText accumulates the cross-source selected lines attributed to
	// this page, newline-joined. Pages with empty FinalText are excluded
	// from the report.
	FinalText string `json:"final_text"`
}

// NewSourcePage creates a page with its identity already assigned.
func NewSourcePage(id int, url string) *SourcePage {
	return &SourcePage{
		ID:              id,
		URL:             url,
		Title:           "n/a",
		Description:     "n/a",
		Publisher:       "n/a",
		PublicationDate: "n/a",
	}
}

// PromptBlock renders the page's attributes as a structured block for prompts
// and logs.
func (p *SourcePage) PromptBlock() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ID: %d\n", p.ID)
	fmt.Fprintf(&sb, "URL: %s\n", p.URL)
	fmt.Fprintf(&sb, "Title: %s\n", orDefault(p.Title, "Untitled"))
	fmt.Fprintf(&sb, "Description: %s\n", orDefault(p.Description, "n/a"))
	fmt.Fprintf(&sb, "Published: %s\n", orDefault(p.PublicationDate, "Unknown"))
	fmt.Fprintf(&sb, "Publisher: %s", orDefault(p.Publisher, "Unknown"))
	return sb.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
