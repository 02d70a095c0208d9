// Package resolver issues planned queries against the search capability and
// collects a deduplicated, denylist-filtered set of candidate URLs.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/openpredict/evidence/internal/pool"
	"github.com/openpredict/evidence/pkg/capability"
)

const (
	// MaxURLsPerQuery is the upper bound of the per-query URL cap.
	MaxURLsPerQuery = 10
	// overFetch is how many candidates each query requests before local
	// filtering.
	overFetch = 10
	// searchWorkers bounds concurrent search calls.
	searchWorkers = 5
)

// ErrInvalidURLCap reports a per-query URL cap outside [1, MaxURLsPerQuery].
var ErrInvalidURLCap = errors.New("urls per query must be between 1 and 10")

// DefaultDenylist drops URLs whose text contains any of these substrings:
// document hosts, video and social-media sites that never scrape well.
var DefaultDenylist = []string{"pdf", "instagram", "youtube", "reddit"}

// Resolver fans queries out to the search capability.
type Resolver struct {
	Searcher capability.Searcher
	Logger   *slog.Logger
	Denylist []string
}

// Resolve searches every query concurrently and merges the results into a
// deduplicated URL list, accepting at most num URLs per query. First-seen
// wins on duplicates. It validates num before issuing any search call.
func (r *Resolver) Resolve(ctx context.Context, queries []string, num int) ([]string, error) {
	if num < 1 || num > MaxURLsPerQuery {
		return nil, ErrInvalidURLCap
	}

	denylist := r.Denylist
	if denylist == nil {
		denylist = DefaultDenylist
	}

	perQuery, ok := pool.Map(ctx, searchWorkers, queries, func(ctx context.Context, query string) ([]string, error) {
		urls, err := r.Searcher.Search(ctx, query, overFetch)
		if err != nil {
			r.Logger.Warn("search failed", "query", query, "error", err)
			return nil, err
		}
		return urls, nil
	})

	seen := make(map[string]struct{})
	var accepted []string
	for i, urls := range perQuery {
		if !ok[i] {
			continue
		}
		count := 0
		for _, url := range urls {
			if _, dup := seen[url]; dup {
				continue
			}
			if denied(url, denylist) {
				continue
			}
			seen[url] = struct{}{}
			accepted = append(accepted, url)
			count++
			if count >= num {
				break
			}
		}
	}

	r.Logger.Info("resolved candidate urls", "queries", len(queries), "urls", len(accepted))
	return accepted, nil
}

func denied(url string, denylist []string) bool {
	for _, keyword := range denylist {
		if strings.Contains(url, keyword) {
			return true
		}
	}
	return false
}
