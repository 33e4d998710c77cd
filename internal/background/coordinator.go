package background

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dropflow/product-importer/internal/extractor"
	"github.com/dropflow/product-importer/internal/fetcher"
	"github.com/dropflow/product-importer/internal/models"
	"github.com/dropflow/product-importer/internal/page"
	"github.com/dropflow/product-importer/internal/storage"
	"github.com/dropflow/product-importer/internal/transport"
)

// Transport is the slice of the account client the coordinator uses.
type Transport interface {
	Submit(ctx context.Context, token string, record models.ProductRecord) transport.SubmitResult
	Login(ctx context.Context, email, password string) transport.LoginResult
	CheckAuth(ctx context.Context, token string) models.AuthStatus
	Logout(ctx context.Context, token string) transport.LogoutResult
}

// Notifier surfaces transient user notifications for completed
// operations. The default implementation only logs.
type Notifier interface {
	Notify(title, message string, level page.Level)
}

type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Notify(title, message string, level page.Level) {
	n.logger.Info("notification", "title", title, "message", message, "level", level)
}

// Coordinator owns the long-lived state shared by every surface: the
// auth status, the active tab, the page session and the badge. All
// commands funnel through it.
//
// Auth transitions are atomic. The status and its token are replaced
// as one value under the mutex, and handlers capture a snapshot at
// entry, so a reader never observes a token from one session paired
// with a user from another.
type Coordinator struct {
	mu     sync.RWMutex
	auth   models.AuthStatus
	token  string
	tabURL string

	registry  *extractor.Registry
	session   *page.Session
	fetch     fetcher.Fetcher
	transport Transport
	store     storage.Store
	notifier  Notifier
	notify    *page.Center
	logger    *slog.Logger
}

func NewCoordinator(registry *extractor.Registry, session *page.Session, fetch fetcher.Fetcher, tr Transport, store storage.Store) *Coordinator {
	logger := slog.Default().With("component", "background")
	return &Coordinator{
		auth:      models.Unauthenticated(),
		registry:  registry,
		session:   session,
		fetch:     fetch,
		transport: tr,
		store:     store,
		notifier:  logNotifier{logger: logger},
		notify:    page.NewCenter(page.DefaultNotificationTTL),
		logger:    logger,
	}
}

// SetNotifier swaps the notification sink, mainly for tests.
func (c *Coordinator) SetNotifier(n Notifier) {
	c.notifier = n
}

// SetNotificationTTL replaces the notification center with one using
// the given auto-dismiss TTL. Call before serving commands.
func (c *Coordinator) SetNotificationTTL(ttl time.Duration) {
	c.notify = page.NewCenter(ttl)
}

// Restore re-derives the auth status from the persisted session. Run
// it once at startup before serving commands.
func (c *Coordinator) Restore(ctx context.Context) {
	status := c.HandleCheckAuth(ctx)
	c.logger.Info("session restored", "authenticated", status.IsAuthenticated)
}

// Notifications exposes the notification center for UI surfaces.
func (c *Coordinator) Notifications() *page.Center {
	return c.notify
}

func (c *Coordinator) authSnapshot() (models.AuthStatus, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth, c.token
}

func (c *Coordinator) setAuth(status models.AuthStatus, token string) {
	c.mu.Lock()
	c.auth = status
	c.token = token
	c.mu.Unlock()
}

func (c *Coordinator) setTabURL(url string) {
	c.mu.Lock()
	c.tabURL = url
	c.mu.Unlock()
}

// HandlePageLoaded records the active tab and runs extraction when the
// page is a supported marketplace. Unsupported pages reset the session.
func (c *Coordinator) HandlePageLoaded(ctx context.Context, url string) {
	c.setTabURL(url)

	if !c.registry.Supported(url) {
		c.session.Extract(nil, url)
		return
	}

	doc, err := c.fetch.Fetch(ctx, url)
	if err != nil {
		c.logger.Warn("page fetch failed", "url", url, "error", err)
		c.session.Reset()
		return
	}

	record := c.session.Extract(doc, url)
	if record != nil {
		c.logger.Info("product extracted",
			"source", record.Source,
			"product_id", record.ProductID,
		)
	}
}

// HandleTabActivated only moves the badge; extraction waits for the
// page load signal.
func (c *Coordinator) HandleTabActivated(url string) {
	c.setTabURL(url)
}

// HandleExtract returns the cached record for the active tab,
// extracting on demand when the cache is cold. The cache only answers
// for the page it was filled from; after a tab switch it either
// re-extracts or, on an unsupported page, fails soft with nil.
func (c *Coordinator) HandleExtract(ctx context.Context) *models.ProductRecord {
	c.mu.RLock()
	url := c.tabURL
	c.mu.RUnlock()

	if url == "" || !c.registry.Supported(url) {
		return nil
	}

	if record := c.session.Current(); record != nil && record.URL == url {
		return record
	}

	doc, err := c.fetch.Fetch(ctx, url)
	if err != nil {
		c.logger.Warn("on-demand fetch failed", "url", url, "error", err)
		return nil
	}
	return c.session.Extract(doc, url)
}

// HandleImport submits a record to the user's account. The auth check
// runs first and short-circuits before any network traffic, then the
// record is validated, then submitted. A successful import lands in
// the recent-imports list.
func (c *Coordinator) HandleImport(ctx context.Context, record models.ProductRecord) ImportResult {
	status, token := c.authSnapshot()
	if !status.IsAuthenticated {
		return ImportResult{Success: false, Error: "Not authenticated"}
	}

	if !record.ValidForImport() {
		missing := strings.Join(record.MissingFields(), ", ")
		return ImportResult{Success: false, Error: fmt.Sprintf("product record is incomplete: %s", missing)}
	}

	result := c.transport.Submit(ctx, token, record)
	if !result.Success {
		c.notifier.Notify("Import failed", result.Error, page.LevelError)
		c.notify.Show(result.Error, page.LevelError)
		return ImportResult{Success: false, Error: result.Error}
	}

	if err := c.store.AddRecentImport(ctx, record); err != nil {
		c.logger.Warn("recording recent import failed", "error", err)
	}

	message := fmt.Sprintf("%s imported", record.Title)
	c.notifier.Notify("Product imported", message, page.LevelSuccess)
	c.notify.Show(message, page.LevelSuccess)

	return ImportResult{Success: true, ProductID: result.ProductID}
}

// HandleQuickImport chains extraction and import for the active tab.
func (c *Coordinator) HandleQuickImport(ctx context.Context) ImportResult {
	record := c.HandleExtract(ctx)
	if record == nil {
		return ImportResult{Success: false, Error: "no product on this page"}
	}
	return c.HandleImport(ctx, *record)
}

// HandleCheckAuth validates the persisted session against the account
// service and replaces the auth status with the outcome. A session the
// service rejects is cleared from storage.
func (c *Coordinator) HandleCheckAuth(ctx context.Context) models.AuthStatus {
	sess, err := c.store.LoadSession(ctx)
	if err != nil {
		c.logger.Warn("loading session failed", "error", err)
	}
	if sess == nil {
		c.setAuth(models.Unauthenticated(), "")
		return models.Unauthenticated()
	}

	status := c.transport.CheckAuth(ctx, sess.Token)
	if !status.IsAuthenticated {
		if err := c.store.ClearSession(ctx); err != nil {
			c.logger.Warn("clearing stale session failed", "error", err)
		}
		c.setAuth(models.Unauthenticated(), "")
		return models.Unauthenticated()
	}

	c.setAuth(status, sess.Token)
	return status
}

// HandleLogin exchanges credentials for a session, persists it, and
// replaces the auth status in one step. A failed login leaves the
// current status untouched.
func (c *Coordinator) HandleLogin(ctx context.Context, email, password string) transport.LoginResult {
	result := c.transport.Login(ctx, email, password)
	if !result.Success {
		return result
	}

	sess := &storage.Session{Token: result.Token, User: result.User, SavedAt: time.Now()}
	if err := c.store.SaveSession(ctx, sess); err != nil {
		c.logger.Warn("persisting session failed", "error", err)
	}

	c.setAuth(models.AuthStatus{IsAuthenticated: true, User: result.User}, result.Token)
	c.logger.Info("login succeeded", "email", email)
	return result
}

// HandleLogout drops the session locally and tells the service. The
// local state clears even when the remote call fails.
func (c *Coordinator) HandleLogout(ctx context.Context) transport.LogoutResult {
	_, token := c.authSnapshot()

	result := c.transport.Logout(ctx, token)
	if !result.Success {
		c.logger.Warn("remote logout failed, clearing local session anyway")
	}

	if err := c.store.ClearSession(ctx); err != nil {
		c.logger.Warn("clearing session failed", "error", err)
	}
	c.setAuth(models.Unauthenticated(), "")

	return transport.LogoutResult{Success: true}
}

// RecentImports returns the bounded newest-first import history.
func (c *Coordinator) RecentImports(ctx context.Context) ([]models.ProductRecord, error) {
	return c.store.RecentImports(ctx)
}

// AuthStatus returns the current auth snapshot.
func (c *Coordinator) AuthStatus() models.AuthStatus {
	status, _ := c.authSnapshot()
	return status
}

// Badge derives the badge for the active tab.
func (c *Coordinator) Badge() Badge {
	c.mu.RLock()
	authenticated := c.auth.IsAuthenticated
	url := c.tabURL
	c.mu.RUnlock()

	return ComputeBadge(authenticated, url != "" && c.registry.Supported(url))
}
