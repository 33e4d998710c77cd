package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dropflow/product-importer/internal/models"
)

// Client is the thin boundary to the remote account service. Network
// and remote failures never escape as errors; every method converts
// them into a result value the caller can surface to the user. Failed
// submits are not retried here, the user retries manually.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  slog.Default().With("component", "transport"),
	}
}

type SubmitResult struct {
	Success   bool   `json:"success"`
	ProductID string `json:"product_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type LoginResult struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type LogoutResult struct {
	Success bool `json:"success"`
}

// Submit sends a product record to the user's account.
func (c *Client) Submit(ctx context.Context, token string, record models.ProductRecord) SubmitResult {
	if token == "" {
		return SubmitResult{Success: false, Error: "Not authenticated"}
	}

	body, err := json.Marshal(record)
	if err != nil {
		return SubmitResult{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/import/extension", bytes.NewReader(body))
	if err != nil {
		return SubmitResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("import submit failed", "error", err)
		return SubmitResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return SubmitResult{Success: false, Error: c.errorMessage(resp)}
	}

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SubmitResult{Success: false, Error: fmt.Sprintf("invalid response: %v", err)}
	}
	result.Success = true
	return result
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) LoginResult {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return LoginResult{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return LoginResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("login request failed", "error", err)
		return LoginResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return LoginResult{Success: false, Error: c.errorMessage(resp)}
	}

	var payload struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return LoginResult{Success: false, Error: fmt.Sprintf("invalid response: %v", err)}
	}

	return LoginResult{Success: true, Token: payload.Token, User: payload.User}
}

// CheckAuth validates a persisted token against the account service.
// Any failure, local or remote, yields the unauthenticated status.
func (c *Client) CheckAuth(ctx context.Context, token string) models.AuthStatus {
	if token == "" {
		return models.Unauthenticated()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil)
	if err != nil {
		return models.Unauthenticated()
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("auth check failed", "error", err)
		return models.Unauthenticated()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Unauthenticated()
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return models.Unauthenticated()
	}

	return models.AuthStatus{IsAuthenticated: true, User: &user}
}

// Logout invalidates the session server-side. Local state is cleared
// by the caller regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) LogoutResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/logout", nil)
	if err != nil {
		return LogoutResult{Success: false}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("logout request failed", "error", err)
		return LogoutResult{Success: false}
	}
	defer resp.Body.Close()

	return LogoutResult{Success: resp.StatusCode == http.StatusOK}
}

// errorMessage pulls the service's error text out of a non-2xx
// response, falling back to the HTTP status.
func (c *Client) errorMessage(resp *http.Response) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("request failed with status %d", resp.StatusCode)
}
