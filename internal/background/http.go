package background

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// API exposes the coordinator's command set over a local HTTP socket so
// UI surfaces (popup, page overlay, shortcuts) can drive it.
type API struct {
	coordinator *Coordinator
	logger      *slog.Logger
}

func NewAPI(coordinator *Coordinator) *API {
	return &API{
		coordinator: coordinator,
		logger:      slog.Default().With("component", "agent_api"),
	}
}

// Router builds the command routes.
func (a *API) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/commands", func(r chi.Router) {
		r.Post("/page-loaded", a.handlePageLoaded)
		r.Post("/tab-activated", a.handleTabActivated)
		r.Post("/extract", a.handleExtract)
		r.Post("/import", a.handleImport)
		r.Post("/quick-import", a.handleQuickImport)
		r.Get("/auth", a.handleCheckAuth)
		r.Post("/login", a.handleLogin)
		r.Post("/logout", a.handleLogout)
	})

	r.Route("/state", func(r chi.Router) {
		r.Get("/badge", a.handleBadge)
		r.Get("/recent-imports", a.handleRecentImports)
		r.Get("/notification", a.handleNotification)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func (a *API) handlePageLoaded(w http.ResponseWriter, r *http.Request) {
	var cmd PageLoaded
	if !decodeBody(w, r, &cmd) {
		return
	}
	a.coordinator.HandlePageLoaded(r.Context(), cmd.URL)
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (a *API) handleTabActivated(w http.ResponseWriter, r *http.Request) {
	var cmd TabActivated
	if !decodeBody(w, r, &cmd) {
		return
	}
	a.coordinator.HandleTabActivated(cmd.URL)
	respondJSON(w, http.StatusOK, a.coordinator.Badge())
}

func (a *API) handleExtract(w http.ResponseWriter, r *http.Request) {
	record := a.coordinator.HandleExtract(r.Context())
	if record == nil {
		respondError(w, http.StatusNotFound, "no product on this page")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	var cmd ImportProduct
	if !decodeBody(w, r, &cmd) {
		return
	}

	result := a.coordinator.HandleImport(r.Context(), cmd.Record)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, result)
}

func (a *API) handleQuickImport(w http.ResponseWriter, r *http.Request) {
	result := a.coordinator.HandleQuickImport(r.Context())
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, result)
}

func (a *API) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.coordinator.HandleCheckAuth(r.Context()))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var cmd Login
	if !decodeBody(w, r, &cmd) {
		return
	}

	result := a.coordinator.HandleLogin(r.Context(), cmd.Email, cmd.Password)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnauthorized
	}
	respondJSON(w, status, result)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.coordinator.HandleLogout(r.Context()))
}

func (a *API) handleBadge(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.coordinator.Badge())
}

func (a *API) handleRecentImports(w http.ResponseWriter, r *http.Request) {
	records, err := a.coordinator.RecentImports(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "loading recent imports failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"imports": records})
}

func (a *API) handleNotification(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"notification": a.coordinator.Notifications().Current(),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encoding response failed", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
