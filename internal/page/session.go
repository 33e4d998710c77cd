package page

import (
	"log/slog"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/dropflow/product-importer/internal/extractor"
	"github.com/dropflow/product-importer/internal/models"
)

// State tracks where the page session is in its extraction lifecycle.
type State int

const (
	StateIdle State = iota
	StateExtracting
	StateExtracted
	StateUnsupported
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracting:
		return "extracting"
	case StateExtracted:
		return "extracted"
	case StateUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Affordance is the import entry point surfaced on a supported product
// page. Implementations must tolerate repeated Show calls; the session
// always removes the previous affordance before showing a new one so
// duplicates never accumulate.
type Affordance interface {
	Show(record *models.ProductRecord)
	Remove()
}

// NopAffordance is used where no UI surface exists (CLI, tests).
type NopAffordance struct{}

func (NopAffordance) Show(*models.ProductRecord) {}
func (NopAffordance) Remove()                    {}

// Session is the per-page extraction coordinator. It caches the last
// extracted record in a single slot that is only ever replaced whole,
// so concurrent readers see either the old record or the new one.
type Session struct {
	mu         sync.Mutex
	registry   *extractor.Registry
	affordance Affordance
	state      State
	record     *models.ProductRecord
	logger     *slog.Logger
}

func NewSession(registry *extractor.Registry, affordance Affordance) *Session {
	if affordance == nil {
		affordance = NopAffordance{}
	}
	return &Session{
		registry:   registry,
		affordance: affordance,
		state:      StateIdle,
		logger:     slog.Default().With("component", "page_session"),
	}
}

// Extract runs extraction for the loaded document and replaces the
// cached record. Unsupported URLs clear the cache. A supported page
// where no ID could be resolved also clears the cache and falls back
// to idle.
func (s *Session) Extract(doc *goquery.Document, rawURL string) *models.ProductRecord {
	s.mu.Lock()
	s.state = StateExtracting
	s.mu.Unlock()

	if !s.registry.Supported(rawURL) {
		s.mu.Lock()
		s.state = StateUnsupported
		s.record = nil
		s.mu.Unlock()

		s.affordance.Remove()
		s.logger.Debug("unsupported page", "url", rawURL)
		return nil
	}

	record := s.registry.Extract(doc, rawURL)

	s.mu.Lock()
	if record == nil {
		s.state = StateIdle
		s.record = nil
	} else {
		s.state = StateExtracted
		s.record = record
	}
	s.mu.Unlock()

	if record != nil {
		// Re-inject the affordance idempotently.
		s.affordance.Remove()
		s.affordance.Show(record)
		s.logger.Info("product extracted",
			"source", record.Source,
			"product_id", record.ProductID,
			"valid", record.ValidForImport(),
		)
	} else {
		s.affordance.Remove()
	}

	return record
}

// Reset clears the cached record without running extraction, used when
// the page could not be loaded at all.
func (s *Session) Reset() {
	s.mu.Lock()
	s.state = StateIdle
	s.record = nil
	s.mu.Unlock()
	s.affordance.Remove()
}

// Current answers "what did you extract" from the cache without
// re-running extraction.
func (s *Session) Current() *models.ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
