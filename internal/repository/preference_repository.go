package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-substitution-console/pkg/storage"
)

const preferencesFile = "preferences.json"

// PreferenceRepository stores small string preferences such as the UI theme. A missing key
// reports ok=false.
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// FilePreferenceRepository keeps preferences in a JSON document on local storage.
type FilePreferenceRepository struct {
	store *storage.LocalStorage
	mu    sync.Mutex
}

// NewFilePreferenceRepository constructs a file-backed preference repository.
func NewFilePreferenceRepository(store *storage.LocalStorage) *FilePreferenceRepository {
	return &FilePreferenceRepository{store: store}
}

// Get returns the stored value for key.
func (r *FilePreferenceRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefs, err := r.load()
	if err != nil {
		return "", false, err
	}
	value, ok := prefs[key]
	return value, ok, nil
}

// Set writes key and rewrites the document.
func (r *FilePreferenceRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefs, err := r.load()
	if err != nil {
		return err
	}
	prefs[key] = value
	payload, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if _, err := r.store.Save(preferencesFile, payload); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (r *FilePreferenceRepository) load() (map[string]string, error) {
	raw, err := r.store.Read(preferencesFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	prefs := map[string]string{}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	return prefs, nil
}

// RedisPreferenceRepository keeps preferences as plain keys under a prefix.
type RedisPreferenceRepository struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisPreferenceRepository constructs a Redis-backed preference repository.
func NewRedisPreferenceRepository(client *redis.Client, prefix string, logger *zap.Logger) *RedisPreferenceRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPreferenceRepository{client: client, prefix: prefix, logger: logger}
}

// Get returns the stored value for key.
func (r *RedisPreferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if r.client == nil {
		return "", false, nil
	}
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores key without expiry.
func (r *RedisPreferenceRepository) Set(ctx context.Context, key, value string) error {
	if r.client == nil {
		r.logger.Warn("preference dropped, redis not configured", zap.String("key", key))
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *RedisPreferenceRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
