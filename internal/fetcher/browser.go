package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
)

// RenderedFetcher drives a headless browser so JavaScript-heavy
// marketplace pages (AliExpress in particular) are fully rendered
// before extraction.
type RenderedFetcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	retries int
	logger  *slog.Logger
}

type BrowserOptions struct {
	Headless  bool
	Timeout   time.Duration
	UserAgent string
	Locale    string
	Retries   int
}

func DefaultBrowserOptions() *BrowserOptions {
	return &BrowserOptions{
		Headless:  true,
		Timeout:   30 * time.Second,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Locale:    "fr-FR",
		Retries:   3,
	}
}

func NewRenderedFetcher(opts *BrowserOptions) (*RenderedFetcher, error) {
	if opts == nil {
		opts = DefaultBrowserOptions()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: &opts.UserAgent,
		Locale:    &opts.Locale,
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	return &RenderedFetcher{
		pw:      pw,
		browser: browser,
		context: browserCtx,
		retries: opts.Retries,
		logger:  slog.Default().With("component", "rendered_fetcher"),
	}, nil
}

func (f *RenderedFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	page, err := f.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	if err := f.navigateWithRetry(ctx, page, url); err != nil {
		return nil, err
	}

	// Nudge lazy-loaded galleries into the DOM.
	if _, err := page.Evaluate(`() => window.scrollTo(0, document.body.scrollHeight / 2)`); err != nil {
		f.logger.Debug("scroll failed", "url", url, "error", err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	return doc, nil
}

func (f *RenderedFetcher) navigateWithRetry(ctx context.Context, page playwright.Page, url string) error {
	var lastErr error

	for attempt := 1; attempt <= f.retries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		})
		if err == nil {
			return nil
		}

		lastErr = err
		f.logger.Warn("navigation failed", "url", url, "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	return fmt.Errorf("failed to navigate after %d attempts: %w", f.retries, lastErr)
}

func (f *RenderedFetcher) Close() error {
	if err := f.context.Close(); err != nil {
		f.logger.Warn("failed to close browser context", "error", err)
	}
	if err := f.browser.Close(); err != nil {
		f.logger.Warn("failed to close browser", "error", err)
	}
	return f.pw.Stop()
}
