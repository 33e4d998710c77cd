package background

import (
	"context"

	"github.com/dropflow/product-importer/internal/models"
)

// Command is the closed set of requests the coordinator accepts from
// its UI surfaces. Each variant carries a typed payload instead of a
// string-tagged blob.
type Command interface {
	isCommand()
}

// PageLoaded signals that the active tab finished loading. Fire and
// forget: it triggers extraction but returns nothing.
type PageLoaded struct {
	URL string `json:"url"`
}

// TabActivated signals a change of active tab; only the badge reacts.
type TabActivated struct {
	URL string `json:"url"`
}

// ExtractProduct asks for the active page's product, extracting on
// demand when nothing is cached.
type ExtractProduct struct{}

// ImportProduct submits an extracted record to the user's account.
type ImportProduct struct {
	Record models.ProductRecord `json:"record"`
}

// CheckAuth re-derives the auth status from the persisted session.
type CheckAuth struct{}

// Login exchanges credentials for a session.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Logout drops the session.
type Logout struct{}

// QuickImport chains extract and import in one step, mirroring the
// keyboard shortcut.
type QuickImport struct{}

func (PageLoaded) isCommand()     {}
func (TabActivated) isCommand()   {}
func (ExtractProduct) isCommand() {}
func (ImportProduct) isCommand()  {}
func (CheckAuth) isCommand()      {}
func (Login) isCommand()          {}
func (Logout) isCommand()         {}
func (QuickImport) isCommand()    {}

// ImportResult is the response to ImportProduct and QuickImport.
type ImportResult struct {
	Success   bool   `json:"success"`
	ProductID string `json:"product_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Dispatch routes a command to its handler and returns the handler's
// typed response (nil for fire-and-forget commands).
func (c *Coordinator) Dispatch(ctx context.Context, cmd Command) any {
	switch cmd := cmd.(type) {
	case PageLoaded:
		c.HandlePageLoaded(ctx, cmd.URL)
		return nil
	case TabActivated:
		c.HandleTabActivated(cmd.URL)
		return nil
	case ExtractProduct:
		return c.HandleExtract(ctx)
	case ImportProduct:
		return c.HandleImport(ctx, cmd.Record)
	case CheckAuth:
		return c.HandleCheckAuth(ctx)
	case Login:
		return c.HandleLogin(ctx, cmd.Email, cmd.Password)
	case Logout:
		return c.HandleLogout(ctx)
	case QuickImport:
		return c.HandleQuickImport(ctx)
	default:
		return nil
	}
}
