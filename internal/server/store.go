package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropflow/product-importer/internal/models"
)

// ErrDuplicateImport marks a product the user already imported. The
// same listing may be imported once per account, not once globally.
var ErrDuplicateImport = errors.New("product already imported")

// Account is a registered user with credentials.
type Account struct {
	ID           string
	Email        string
	Name         string
	Plan         string
	PasswordHash string
	CreatedAt    time.Time
}

// User converts the account to its public profile shape.
func (a *Account) User() models.User {
	return models.User{ID: a.ID, Email: a.Email, Name: a.Name, Plan: a.Plan}
}

// ImportedProduct is a product record persisted under a user's account.
type ImportedProduct struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	Record     models.ProductRecord `json:"record"`
	ImportedAt time.Time            `json:"imported_at"`
}

// ImportStats summarizes a user's import activity.
type ImportStats struct {
	Total    int                   `json:"total"`
	BySource map[models.Source]int `json:"by_source"`
}

// Store is the account service's persistence boundary.
type Store interface {
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	AccountByID(ctx context.Context, id string) (*Account, error)
	SaveImport(ctx context.Context, userID string, record models.ProductRecord) (*ImportedProduct, error)
	ImportsByUser(ctx context.Context, userID string, limit int) ([]ImportedProduct, error)
	ImportStats(ctx context.Context, userID string) (*ImportStats, error)
	Close()
}

// PostgresStore persists accounts and imports in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			plan TEXT NOT NULL DEFAULT 'free',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS imported_products (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES accounts(id),
			source TEXT NOT NULL,
			product_id TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			price NUMERIC NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			images TEXT[] NOT NULL DEFAULT '{}',
			extracted_at TIMESTAMPTZ,
			imported_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, source, product_id)
		);

		CREATE INDEX IF NOT EXISTS idx_imported_products_user
			ON imported_products (user_id, imported_at DESC);`

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
		SELECT id, email, name, plan, password_hash, created_at
		FROM accounts
		WHERE email = $1`

	a := &Account{}
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.Name, &a.Plan, &a.PasswordHash, &a.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return a, nil
}

func (s *PostgresStore) AccountByID(ctx context.Context, id string) (*Account, error) {
	query := `
		SELECT id, email, name, plan, password_hash, created_at
		FROM accounts
		WHERE id = $1`

	a := &Account{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Email, &a.Name, &a.Plan, &a.PasswordHash, &a.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return a, nil
}

func (s *PostgresStore) SaveImport(ctx context.Context, userID string, record models.ProductRecord) (*ImportedProduct, error) {
	imported := &ImportedProduct{
		ID:     uuid.New().String(),
		UserID: userID,
		Record: record,
	}

	query := `
		INSERT INTO imported_products
			(id, user_id, source, product_id, url, title, price, description, images, extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING imported_at`

	err := s.pool.QueryRow(ctx, query,
		imported.ID, userID, record.Source, record.ProductID, record.URL,
		record.Title, record.Price, record.Description, record.Images, record.Timestamp,
	).Scan(&imported.ImportedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, ErrDuplicateImport
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save import: %w", err)
	}

	return imported, nil
}

func (s *PostgresStore) ImportsByUser(ctx context.Context, userID string, limit int) ([]ImportedProduct, error) {
	query := `
		SELECT id, user_id, source, product_id, url, title, price, description, images, extracted_at, imported_at
		FROM imported_products
		WHERE user_id = $1
		ORDER BY imported_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer rows.Close()

	var imports []ImportedProduct
	for rows.Next() {
		var p ImportedProduct
		err := rows.Scan(
			&p.ID, &p.UserID, &p.Record.Source, &p.Record.ProductID, &p.Record.URL,
			&p.Record.Title, &p.Record.Price, &p.Record.Description, &p.Record.Images,
			&p.Record.Timestamp, &p.ImportedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		imports = append(imports, p)
	}

	return imports, nil
}

func (s *PostgresStore) ImportStats(ctx context.Context, userID string) (*ImportStats, error) {
	query := `
		SELECT source, COUNT(*) AS count
		FROM imported_products
		WHERE user_id = $1
		GROUP BY source`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count imports: %w", err)
	}
	defer rows.Close()

	stats := &ImportStats{BySource: make(map[models.Source]int)}
	for rows.Next() {
		var source models.Source
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		stats.BySource[source] = count
		stats.Total += count
	}

	return stats, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// MemoryStore is the in-memory Store used by tests and local runs
// without a database.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*Account
	imports  map[string][]ImportedProduct
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*Account),
		imports:  make(map[string][]ImportedProduct),
	}
}

// CreateAccount registers an account with a bcrypt-hashed password.
func (s *MemoryStore) CreateAccount(email, name, plan, password string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Plan:         plan,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	s.accounts[account.ID] = account
	s.mu.Unlock()

	return account, nil
}

func (s *MemoryStore) AccountByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) AccountByID(_ context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id], nil
}

func (s *MemoryStore) SaveImport(_ context.Context, userID string, record models.ProductRecord) (*ImportedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.imports[userID] {
		if existing.Record.Source == record.Source && existing.Record.ProductID == record.ProductID {
			return nil, ErrDuplicateImport
		}
	}

	imported := ImportedProduct{
		ID:         uuid.New().String(),
		UserID:     userID,
		Record:     record,
		ImportedAt: time.Now(),
	}
	s.imports[userID] = append(s.imports[userID], imported)

	return &imported, nil
}

func (s *MemoryStore) ImportsByUser(_ context.Context, userID string, limit int) ([]ImportedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	imports := append([]ImportedProduct(nil), s.imports[userID]...)
	sort.Slice(imports, func(i, j int) bool {
		return imports[i].ImportedAt.After(imports[j].ImportedAt)
	})
	if len(imports) > limit {
		imports = imports[:limit]
	}
	return imports, nil
}

func (s *MemoryStore) ImportStats(_ context.Context, userID string) (*ImportStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &ImportStats{BySource: make(map[models.Source]int)}
	for _, imported := range s.imports[userID] {
		stats.BySource[imported.Record.Source]++
		stats.Total++
	}
	return stats, nil
}

func (s *MemoryStore) Close() {}
