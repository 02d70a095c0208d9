package capability

import (
	"context"
	"fmt"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// GoogleSearcher implements Searcher with the Google Custom Search API.
type GoogleSearcher struct {
	service  *customsearch.Service
	engineID string
}

// NewGoogleSearcher builds a searcher for the given API key and custom
// search engine ID.
func NewGoogleSearcher(ctx context.Context, apiKey, engineID string) (*GoogleSearcher, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("custom search service: %w", err)
	}
	return &GoogleSearcher{service: svc, engineID: engineID}, nil
}

func (g *GoogleSearcher) Search(ctx context.Context, query string, num int) ([]string, error) {
	resp, err := g.service.Cse.List().
		Q(query).
		Cx(g.engineID).
		Num(int64(num)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	urls := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		urls = append(urls, item.Link)
	}
	return urls, nil
}
