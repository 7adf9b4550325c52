// Package redis publishes live pipeline snapshots to Redis so out-of-process
// consumers (dashboards, the decision layer) can read the latest state
// without calling into the library. Latest-keys with TTL plus a short trimmed
// stream; this is a live cache, not durable history.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

const (
	// Stream trimming: a few minutes of 100ms feature snapshots.
	featureStreamMaxLen = 2000
	defaultLatestTTL    = 30 * time.Minute
)

// PublisherConfig configures the Redis publisher.
type PublisherConfig struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
}

// Publisher writes latest feature vectors and quality samples to Redis.
type Publisher struct {
	client *goredis.Client
}

// New creates a Publisher and pings the server.
func New(cfg PublisherConfig) (*Publisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("redis publisher connected", "addr", cfg.Addr)
	return &Publisher{client: client}, nil
}

// Client returns the underlying Redis client for health checks.
func (p *Publisher) Client() *goredis.Client { return p.client }

// Close releases the connection pool.
func (p *Publisher) Close() error { return p.client.Close() }

// PublishFeatures writes the feature vector as the latest-key
// "core:features:latest" and appends it to the "core:features" stream.
func (p *Publisher) PublishFeatures(ctx context.Context, features []float64) error {
	payload, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, "core:features:latest", payload, defaultLatestTTL)
	pipe.XAdd(ctx, &goredis.XAddArgs{
		Stream:       "core:features",
		MaxLenApprox: featureStreamMaxLen,
		Values:       map[string]interface{}{"features": payload, "ts": time.Now().UnixMilli()},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish features: %w", err)
	}
	return nil
}

// PublishQuality writes a marshalable quality sample as the latest-key
// "core:quality:<source>".
func (p *Publisher) PublishQuality(ctx context.Context, source string, sample interface{}) error {
	payload, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("marshal quality sample: %w", err)
	}
	if err := p.client.Set(ctx, "core:quality:"+source, payload, defaultLatestTTL).Err(); err != nil {
		return fmt.Errorf("publish quality: %w", err)
	}
	return nil
}
