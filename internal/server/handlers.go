package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dropflow/product-importer/internal/models"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, err := s.store.AccountByEmail(r.Context(), req.Email)
	if err != nil {
		s.logger.Error("account lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if account == nil || !checkPassword(account.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		s.logger.Error("token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.logger.Info("login", "email", account.Email)
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  account.User(),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, accountFrom(r.Context()).User())
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are short-lived and stateless; logout is an acknowledgment
	// so clients can drop their local session.
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleImportExtension(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())

	var record models.ProductRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(record); err != nil {
		respondError(w, http.StatusBadRequest, "source, url and product_id are required")
		return
	}
	if !record.ValidForImport() {
		respondError(w, http.StatusUnprocessableEntity,
			"product record is incomplete: "+strings.Join(record.MissingFields(), ", "))
		return
	}

	imported, err := s.store.SaveImport(r.Context(), account.ID, record)
	if err == ErrDuplicateImport {
		respondError(w, http.StatusUnprocessableEntity, ErrDuplicateImport.Error())
		return
	}
	if err != nil {
		s.logger.Error("saving import failed", "error", err)
		respondError(w, http.StatusInternalServerError, "import failed")
		return
	}

	s.logger.Info("product imported",
		"user_id", account.ID,
		"source", record.Source,
		"product_id", record.ProductID,
	)
	respondJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"product_id": imported.ID,
	})
}

func (s *Server) handleRecentImports(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	imports, err := s.store.ImportsByUser(r.Context(), account.ID, limit)
	if err != nil {
		s.logger.Error("listing imports failed", "error", err)
		respondError(w, http.StatusInternalServerError, "listing imports failed")
		return
	}
	if imports == nil {
		imports = []ImportedProduct{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"imports": imports})
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	account := accountFrom(r.Context())

	stats, err := s.store.ImportStats(r.Context(), account.ID)
	if err != nil {
		s.logger.Error("computing stats failed", "error", err)
		respondError(w, http.StatusInternalServerError, "computing stats failed")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
