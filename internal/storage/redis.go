package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dropflow/product-importer/internal/models"
)

const (
	sessionKey       = "dropflow:session"
	recentImportsKey = "dropflow:recent_imports"
)

// RedisStore persists agent state in Redis. The recent-imports list
// is maintained with LPUSH + LTRIM so it stays newest-first and
// bounded server-side.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (rs *RedisStore) SaveSession(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := rs.client.Set(ctx, sessionKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (rs *RedisStore) LoadSession(ctx context.Context) (*Session, error) {
	data, err := rs.client.Get(ctx, sessionKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (rs *RedisStore) ClearSession(ctx context.Context) error {
	if err := rs.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (rs *RedisStore) AddRecentImport(ctx context.Context, record models.ProductRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := rs.client.TxPipeline()
	pipe.LPush(ctx, recentImportsKey, data)
	pipe.LTrim(ctx, recentImportsKey, 0, MaxRecentImports-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push recent import: %w", err)
	}
	return nil
}

func (rs *RedisStore) RecentImports(ctx context.Context) ([]models.ProductRecord, error) {
	items, err := rs.client.LRange(ctx, recentImportsKey, 0, MaxRecentImports-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent imports: %w", err)
	}

	records := make([]models.ProductRecord, 0, len(items))
	for _, item := range items {
		var record models.ProductRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
