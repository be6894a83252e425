package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultScanBatchSize = 500

// Redis keeps items as plain string keys under a namespace prefix.
type Redis struct {
	db            redis.UniversalClient
	namespace     string
	scanBatchSize int64
}

// NewRedis wraps a connected client. Every key is stored as namespace+key.
func NewRedis(client redis.UniversalClient, namespace string) *Redis {
	return &Redis{
		db:            client,
		namespace:     namespace,
		scanBatchSize: defaultScanBatchSize,
	}
}

// Conn returns the underlying client.
func (r *Redis) Conn() redis.UniversalClient { return r.db }

func (r *Redis) Close() error { return r.db.Close() }

func (r *Redis) Supported() bool {
	return r.db != nil && r.db.Ping(context.Background()).Err() == nil
}

func (r *Redis) GetItem(ctx context.Context, key string) (string, error) {
	val, err := r.db.Get(ctx, r.namespace+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get item: %w", err)
	}
	return val, nil
}

func (r *Redis) SetItem(ctx context.Context, key, value string) error {
	if err := r.db.Set(ctx, r.namespace+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set item: %w", err)
	}
	return nil
}

func (r *Redis) RemoveItem(ctx context.Context, key string) error {
	if err := r.db.Del(ctx, r.namespace+key).Err(); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	return nil
}

// Clear deletes every key under the namespace. Keys outside it are left
// alone, so the database can be shared.
func (r *Redis) Clear(ctx context.Context) error {
	keys, err := r.scan(ctx)
	if err != nil {
		return err
	}
	for chunk := range slices.Chunk(keys, int(r.scanBatchSize)) {
		if err := r.db.Del(ctx, chunk...).Err(); err != nil {
			return fmt.Errorf("clear items: %w", err)
		}
	}
	return nil
}

// Keys returns item keys with the namespace stripped.
func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, r.namespace)
	}
	return keys, nil
}

// scan walks the namespace with SCAN to avoid blocking the server.
func (r *Redis) scan(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	pattern := escapeGlob(r.namespace) + "*"
	for {
		batch, next, err := r.db.Scan(ctx, cursor, pattern, r.scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("scan keys: %w", err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

func escapeGlob(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`).Replace(s)
}
