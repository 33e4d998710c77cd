package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropflow/product-importer/internal/models"
)

func testRecord() models.ProductRecord {
	return models.ProductRecord{
		Source:    models.SourceAliExpress,
		URL:       "https://aliexpress.com/item/123.html",
		ProductID: "123",
		Title:     "Watch",
		Price:     45.99,
		Images:    []string{"https://cdn.example.com/w.jpg"},
		Timestamp: time.Now(),
	}
}

func TestSubmitSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/import/extension", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var record models.ProductRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&record))
		assert.Equal(t, "123", record.ProductID)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "product_id": "prod_9"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	result := client.Submit(context.Background(), "tok-1", testRecord())

	assert.True(t, result.Success)
	assert.Equal(t, "prod_9", result.ProductID)
	assert.Empty(t, result.Error)
}

func TestSubmitSurfacesRemoteErrorVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "product already imported"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	result := client.Submit(context.Background(), "tok-1", testRecord())

	assert.False(t, result.Success)
	assert.Equal(t, "product already imported", result.Error)
}

func TestSubmitNetworkFailureBecomesResult(t *testing.T) {
	// Point at a closed server so the dial fails.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, 200*time.Millisecond)
	result := client.Submit(context.Background(), "tok-1", testRecord())

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestSubmitWithoutToken(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	result := client.Submit(context.Background(), "", testRecord())

	assert.False(t, result.Success)
	assert.Equal(t, "Not authenticated", result.Error)
	assert.False(t, called)
}

func TestLoginSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "seller@example.com", creds["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-new",
			"user":  models.User{ID: "u1", Email: "seller@example.com"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	result := client.Login(context.Background(), "seller@example.com", "hunter2")

	assert.True(t, result.Success)
	assert.Equal(t, "tok-new", result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, "u1", result.User.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	result := client.Login(context.Background(), "seller@example.com", "wrong")

	assert.False(t, result.Success)
	assert.Equal(t, "invalid credentials", result.Error)
	assert.Empty(t, result.Token)
}

func TestCheckAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(models.User{ID: "u1", Email: "seller@example.com"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	status := client.CheckAuth(context.Background(), "good")
	assert.True(t, status.IsAuthenticated)
	require.NotNil(t, status.User)

	status = client.CheckAuth(context.Background(), "bad")
	assert.False(t, status.IsAuthenticated)
	assert.Nil(t, status.User)

	status = client.CheckAuth(context.Background(), "")
	assert.False(t, status.IsAuthenticated)
}

func TestLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	result := client.Logout(context.Background(), "tok")
	assert.True(t, result.Success)
}
