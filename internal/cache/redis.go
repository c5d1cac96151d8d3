package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"study-tracker/internal/analytics"
)

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	TTL          time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisConfig returns settings for a local server.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		KeyPrefix:    DefaultKeyPrefix,
		TTL:          24 * time.Hour,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Redis stores reports as JSON values under KeyPrefix+userID.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection with PING.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return newRedisWithClient(client, cfg), nil
}

func newRedisWithClient(client *redis.Client, cfg RedisConfig) *Redis {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: cfg.TTL}
}

func (r *Redis) key(userID string) string {
	return r.prefix + userID
}

// Load fetches and decodes the user's report
func (r *Redis) Load(ctx context.Context, userID string) (analytics.Report, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return analytics.Report{}, ErrCacheMiss
	}
	if err != nil {
		return analytics.Report{}, fmt.Errorf("cache: get %s: %w", r.key(userID), err)
	}

	var report analytics.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return analytics.Report{}, fmt.Errorf("cache: decode report: %w", err)
	}
	return report, nil
}

// Save encodes and stores the report with the configured TTL
func (r *Redis) Save(ctx context.Context, userID string, report analytics.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("cache: encode report: %w", err)
	}
	if err := r.client.Set(ctx, r.key(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", r.key(userID), err)
	}
	return nil
}

// Close closes the client
func (r *Redis) Close() error {
	return r.client.Close()
}
