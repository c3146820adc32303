package cache

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

// SnapshotKey is where the pipeline mirrors the latest derived snapshot
// as JSON, so out-of-process sinks can poll Redis instead of the HTTP API.
const SnapshotKey = "snapshot:latest"

// Client is nil when Redis is unavailable; the pipeline is nil-safe and
// simply skips mirroring.
var Client *redis.Client

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

// InitRedis connects to REDIS_URL. Unlike the database in a persistent
// system, Redis is an optional mirror here: on failure the process runs
// memory-only.
func InitRedis(ctx context.Context) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}

	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			log.Printf("failed to parse REDIS_URL, running memory-only: %v", err)
			return
		}
		opts = parsed
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		log.Printf("Redis unavailable at %s, running memory-only: %v", opts.Addr, err)
		return
	}
	Client = client
	log.Println("Connected to Redis")
}
