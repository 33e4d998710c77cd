package storage

import (
	"context"
	"time"

	"github.com/dropflow/product-importer/internal/models"
)

// MaxRecentImports bounds the persisted recent-imports list. The list
// is newest-first; adding an 11th entry evicts the oldest.
const MaxRecentImports = 10

// Session is the persisted credential state: the account token plus the
// profile it was issued for.
type Session struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	SavedAt time.Time    `json:"saved_at"`
}

// Store persists the agent's long-lived state across restarts: the
// session credential and the bounded recent-imports list.
type Store interface {
	SaveSession(ctx context.Context, session *Session) error
	// LoadSession returns nil when no session is persisted.
	LoadSession(ctx context.Context) (*Session, error)
	ClearSession(ctx context.Context) error

	AddRecentImport(ctx context.Context, record models.ProductRecord) error
	// RecentImports returns at most MaxRecentImports records,
	// newest first.
	RecentImports(ctx context.Context) ([]models.ProductRecord, error)

	Close() error
}
