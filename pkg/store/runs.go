package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openpredict/evidence/models"
)

// Run is one persisted research run.
type Run struct {
	ID               string
	Question         string
	Queries          []string
	Report           string
	SourceCount      int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	CreatedAt        time.Time
}

// SaveRun persists a run and its surviving pages, returning the assigned run
// ID.
func (s *Store) SaveRun(run Run, pages []*models.SourcePage) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, question, queries, report, report_hash, source_count, prompt_tokens, completion_tokens, total_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Question, strings.Join(run.Queries, "\n"), run.Report,
		contentHash([]byte(run.Report)), len(pages),
		run.PromptTokens, run.CompletionTokens, run.TotalTokens)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, page := range pages {
		_, err = tx.Exec(`
			INSERT INTO run_pages (page_id, run_id, url, title, publisher, publication_date, language, final_text)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, page.ID, run.ID, page.URL, page.Title, page.Publisher, page.PublicationDate, page.Language, page.FinalText)
		if err != nil {
			return "", fmt.Errorf("failed to insert run page: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// GetRun loads a run by ID.
func (s *Store) GetRun(runID string) (*Run, error) {
	var (
		run     Run
		queries string
	)
	err := s.QueryRow(`
		SELECT run_id, question, queries, report, source_count, prompt_tokens, completion_tokens, total_tokens, created_at
		FROM runs WHERE run_id = ?
	`, runID).Scan(&run.ID, &run.Question, &queries, &run.Report, &run.SourceCount,
		&run.PromptTokens, &run.CompletionTokens, &run.TotalTokens, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if queries != "" {
		run.Queries = strings.Split(queries, "\n")
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Query(`
		SELECT run_id, question, report, source_count, total_tokens, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Question, &run.Report, &run.SourceCount, &run.TotalTokens, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunPages loads the surviving pages of a run in page-identity order.
func (s *Store) GetRunPages(runID string) ([]*models.SourcePage, error) {
	rows, err := s.Query(`
		SELECT page_id, url, title, publisher, publication_date, language, final_text
		FROM run_pages WHERE run_id = ? ORDER BY page_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run pages: %w", err)
	}
	defer rows.Close()

	var pages []*models.SourcePage
	for rows.Next() {
		page := &models.SourcePage{}
		if err := rows.Scan(&page.ID, &page.URL, &page.Title, &page.Publisher,
			&page.PublicationDate, &page.Language, &page.FinalText); err != nil {
			return nil, fmt.Errorf("failed to scan run page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}
