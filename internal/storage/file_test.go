package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropflow/product-importer/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	return fs
}

func testRecord(id string) models.ProductRecord {
	return models.ProductRecord{
		Source:    models.SourceAliExpress,
		URL:       "https://aliexpress.com/item/" + id + ".html",
		ProductID: id,
		Title:     "Product " + id,
		Price:     9.99,
		Images:    []string{"https://cdn.example.com/" + id + ".jpg"},
		Timestamp: time.Now(),
	}
}

func TestFileStoreSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	fs, err := NewFileStore(path)
	require.NoError(t, err)

	session, err := fs.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	saved := &Session{
		Token:   "tok-123",
		User:    &models.User{ID: "u1", Email: "seller@example.com"},
		SavedAt: time.Now(),
	}
	require.NoError(t, fs.SaveSession(ctx, saved))

	// A fresh store instance must read the same session back from disk.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	session, err = reopened.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "tok-123", session.Token)
	assert.Equal(t, "seller@example.com", session.User.Email)
}

func TestFileStoreClearSession(t *testing.T) {
	ctx := context.Background()
	fs := newTestStore(t)

	require.NoError(t, fs.SaveSession(ctx, &Session{Token: "tok"}))
	require.NoError(t, fs.ClearSession(ctx))

	session, err := fs.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestFileStoreRecentImportsBoundedNewestFirst(t *testing.T) {
	ctx := context.Background()
	fs := newTestStore(t)

	for i := 1; i <= 11; i++ {
		require.NoError(t, fs.AddRecentImport(ctx, testRecord(fmt.Sprintf("%d", i))))
	}

	imports, err := fs.RecentImports(ctx)
	require.NoError(t, err)
	require.Len(t, imports, MaxRecentImports)

	// Newest first: 11 down to 2; the first import was evicted.
	assert.Equal(t, "11", imports[0].ProductID)
	assert.Equal(t, "2", imports[len(imports)-1].ProductID)
	for _, record := range imports {
		assert.NotEqual(t, "1", record.ProductID)
	}
}
