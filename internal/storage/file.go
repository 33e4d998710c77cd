package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dropflow/product-importer/internal/models"
)

type fileState struct {
	Session       *Session               `json:"session,omitempty"`
	RecentImports []models.ProductRecord `json:"recent_imports"`
}

// FileStore keeps the agent state in a single JSON file. Writes go
// through a temp file and rename so a crash never leaves a torn file.
type FileStore struct {
	mu       sync.Mutex
	filename string
	state    fileState
}

func NewFileStore(filename string) (*FileStore, error) {
	fs := &FileStore{filename: filename}

	if err := fs.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load state file: %w", err)
	}

	return fs, nil
}

func (fs *FileStore) SaveSession(ctx context.Context, session *Session) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.state.Session = session
	return fs.save()
}

func (fs *FileStore) LoadSession(ctx context.Context) (*Session, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.state.Session, nil
}

func (fs *FileStore) ClearSession(ctx context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.state.Session = nil
	return fs.save()
}

func (fs *FileStore) AddRecentImport(ctx context.Context, record models.ProductRecord) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	imports := append([]models.ProductRecord{record}, fs.state.RecentImports...)
	if len(imports) > MaxRecentImports {
		imports = imports[:MaxRecentImports]
	}
	fs.state.RecentImports = imports

	return fs.save()
}

func (fs *FileStore) RecentImports(ctx context.Context) ([]models.ProductRecord, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := make([]models.ProductRecord, len(fs.state.RecentImports))
	copy(out, fs.state.RecentImports)
	return out, nil
}

func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) save() error {
	data, err := json.MarshalIndent(fs.state, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := fs.filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, fs.filename)
}

func (fs *FileStore) load() error {
	data, err := os.ReadFile(fs.filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &fs.state)
}
