// Package fetcher downloads candidate pages with a two-phase strategy: a
// lightweight HEAD probe filters for HTML content, then a full GET retrieves
// the body. URLs are processed in bounded concurrent batches; every per-URL
// failure is logged and dropped, never fatal to the batch.
package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/openpredict/evidence/internal/pool"
	"github.com/openpredict/evidence/models"
)

const (
	// DefaultBatchSize bounds simultaneous connections.
	DefaultBatchSize = 15
	// DefaultTimeout applies per request.
	DefaultTimeout = 10 * time.Second
	// userAgent presents a realistic client identity; many news sites
	// refuse requests without one.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:109.0) Gecko/20100101 Firefox/117.0"
	// maxRedirects bounds redirect chains.
	maxRedirects = 5
)

var (
	// ErrInvalidBatchSize reports a non-positive batch size.
	ErrInvalidBatchSize = errors.New("batch size must be greater than zero")
	// ErrInvalidTimeout reports a non-positive timeout.
	ErrInvalidTimeout = errors.New("timeout must be greater than zero")
)

// Fetcher retrieves HTML for source pages. A single HTTP client is shared by
// all workers; request/response state is per task.
type Fetcher struct {
	client    *http.Client
	logger    *slog.Logger
	batchSize int
	timeout   time.Duration
}

// New validates the batch size and timeout before any network work is
// scheduled and builds a fetcher around a shared client.
func New(logger *slog.Logger, batchSize int, timeout time.Duration) (*Fetcher, error) {
	if batchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}
	if timeout <= 0 {
		return nil, ErrInvalidTimeout
	}

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("too many redirects")
			}
			return nil
		},
	}

	return &Fetcher{
		client:    client,
		logger:    logger,
		batchSize: batchSize,
		timeout:   timeout,
	}, nil
}

// Fetch probes and downloads the pages batch by batch and returns only the
// pages whose HTML was retrieved. Page identities are untouched; failed URLs
// simply drop out of the working set.
func (f *Fetcher) Fetch(ctx context.Context, pages []*models.SourcePage) []*models.SourcePage {
	var (
		mu        sync.Mutex
		succeeded []*models.SourcePage
	)

	for start := 0; start < len(pages); start += f.batchSize {
		end := start + f.batchSize
		if end > len(pages) {
			end = len(pages)
		}
		batch := pages[start:end]

		// Phase 1: header probes. Only pages declaring an HTML content
		// type proceed to retrieval.
		var (
			probeMu  sync.Mutex
			htmlOnly []*models.SourcePage
		)
		_ = pool.ForEach(ctx, len(batch), batch, func(ctx context.Context, page *models.SourcePage) error {
			if f.probe(ctx, page.URL) {
				probeMu.Lock()
				htmlOnly = append(htmlOnly, page)
				probeMu.Unlock()
			}
			return nil
		})

		// Phase 2: full retrieval for the survivors.
		_ = pool.ForEach(ctx, len(htmlOnly), htmlOnly, func(ctx context.Context, page *models.SourcePage) error {
			html, err := f.get(ctx, page.URL)
			if err != nil {
				f.logger.Warn("page fetch failed", "url", page.URL, "error", err)
				return nil
			}
			page.HTML = html
			mu.Lock()
			succeeded = append(succeeded, page)
			mu.Unlock()
			return nil
		})
	}

	f.logger.Info("fetch phase finished", "candidates", len(pages), "fetched", len(succeeded))
	return succeeded
}

// probe issues a HEAD request and reports whether the response declares an
// HTML content type.
func (f *Fetcher) probe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		f.logger.Warn("head request build failed", "url", url, "error", err)
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("head request failed", "url", url, "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		f.logger.Info("skipping non-html url", "url", url, "content_type", resp.Header.Get("Content-Type"))
		return false
	}
	return true
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("status " + resp.Status)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return "", errors.New("content type " + resp.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
