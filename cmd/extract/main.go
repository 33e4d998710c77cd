package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropflow/product-importer/internal/config"
	"github.com/dropflow/product-importer/internal/extractor"
	"github.com/dropflow/product-importer/internal/fetcher"
	"github.com/dropflow/product-importer/pkg/logger"
)

// extract fetches a single product page and prints the extracted
// record as JSON. Exit codes: 0 extracted, 1 failure, 2 unsupported
// or no product found.
func main() {
	godotenv.Load()

	var (
		rendered = flag.Bool("rendered", false, "render the page in a headless browser")
		timeout  = flag.Duration("timeout", 30*time.Second, "fetch timeout")
		pretty   = flag.Bool("pretty", true, "indent the JSON output")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: extract [flags] <product-url>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	url := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	log := logger.New(cfg.Logging.Level, "text")

	registry := extractor.NewRegistry()
	if !registry.Supported(url) {
		sources := make([]string, 0, 4)
		for _, s := range registry.Sources() {
			sources = append(sources, string(s))
		}
		log.Error("unsupported marketplace", "url", url, "supported", strings.Join(sources, ", "))
		os.Exit(2)
	}

	fetch, err := newFetcher(*rendered, *timeout, cfg)
	if err != nil {
		log.Error("failed to start fetcher", "error", err)
		os.Exit(1)
	}
	defer fetch.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	doc, err := fetch.Fetch(ctx, url)
	if err != nil {
		log.Error("fetch failed", "url", url, "error", err)
		os.Exit(1)
	}

	record := registry.Extract(doc, url)
	if record == nil {
		log.Error("no product found on page", "url", url)
		os.Exit(2)
	}

	if !record.ValidForImport() {
		log.Warn("record is incomplete",
			"missing", strings.Join(record.MissingFields(), ", "))
	}

	encoder := json.NewEncoder(os.Stdout)
	if *pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(record); err != nil {
		log.Error("encoding record failed", "error", err)
		os.Exit(1)
	}
}

func newFetcher(rendered bool, timeout time.Duration, cfg *config.Config) (fetcher.Fetcher, error) {
	if rendered {
		opts := fetcher.DefaultBrowserOptions()
		opts.Timeout = timeout
		return fetcher.NewRenderedFetcher(opts)
	}

	return fetcher.NewHTTPFetcher(fetcher.Options{
		Timeout:      timeout,
		MaxRetries:   cfg.Fetcher.MaxRetries,
		RequestDelay: cfg.Fetcher.RequestDelay,
		UserAgents:   cfg.Fetcher.UserAgents,
	}), nil
}
