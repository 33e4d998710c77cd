package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves a product page as a parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
	Close() error
}

// HTTPFetcher retrieves pages over plain HTTP with retries and a
// polite delay between requests. User agents rotate per request.
type HTTPFetcher struct {
	client     *http.Client
	userAgents []string
	maxRetries int
	limiter    *time.Ticker
	logger     *slog.Logger

	mu     sync.Mutex
	nextUA int
}

type Options struct {
	Timeout      time.Duration
	MaxRetries   int
	RequestDelay time.Duration
	UserAgents   []string
}

func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestDelay == 0 {
		opts.RequestDelay = time.Second
	}
	if len(opts.UserAgents) == 0 {
		opts.UserAgents = []string{"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"}
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTPFetcher{
		client:     client,
		userAgents: opts.UserAgents,
		maxRetries: opts.MaxRetries,
		limiter:    time.NewTicker(opts.RequestDelay),
		logger:     slog.Default().With("component", "fetcher"),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		select {
		case <-f.limiter.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", f.nextUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")

		f.logger.Debug("fetching page", "url", url, "attempt", attempt+1)

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			f.logger.Warn("request failed", "url", url, "attempt", attempt+1, "error", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			f.logger.Warn("unexpected status", "url", url, "status", resp.StatusCode, "attempt", attempt+1)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to parse page: %w", err)
			continue
		}

		return doc, nil
	}

	return nil, fmt.Errorf("all fetch attempts failed: %w", lastErr)
}

func (f *HTTPFetcher) nextUserAgent() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ua := f.userAgents[f.nextUA%len(f.userAgents)]
	f.nextUA++
	return ua
}

func (f *HTTPFetcher) Close() error {
	f.limiter.Stop()
	return nil
}
