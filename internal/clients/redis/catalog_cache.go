package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyplan-backend/internal/logger"
)

// CatalogCache caches per-student content catalog snapshots between the
// wizard's repeated auto-match calls. Every method fails open: a cache
// error is logged and treated as a miss so the caller falls back to the
// database.
type CatalogCache interface {
	Get(ctx context.Context, studentID string, dest interface{}) bool
	Set(ctx context.Context, studentID string, snapshot interface{})
	Invalidate(ctx context.Context, studentID string)
	Close() error
}

type catalogCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewCatalogCache(log *logger.Logger) (CatalogCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 10 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("CATALOG_CACHE_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &catalogCache{
		log: log.With("service", "CatalogCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(studentID string) string {
	return "catalog:" + studentID
}

func (c *catalogCache) Get(ctx context.Context, studentID string, dest interface{}) bool {
	if c == nil || c.rdb == nil || studentID == "" {
		return false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(studentID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("catalog cache read failed", "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("bad catalog cache payload, invalidating", "error", err)
		c.Invalidate(ctx, studentID)
		return false
	}
	return true
}

func (c *catalogCache) Set(ctx context.Context, studentID string, snapshot interface{}) {
	if c == nil || c.rdb == nil || studentID == "" {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		c.log.Warn("catalog cache marshal failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(studentID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("catalog cache write failed", "error", err)
	}
}

func (c *catalogCache) Invalidate(ctx context.Context, studentID string) {
	if c == nil || c.rdb == nil || studentID == "" {
		return
	}
	if err := c.rdb.Del(ctx, cacheKey(studentID)).Err(); err != nil {
		c.log.Warn("catalog cache invalidate failed", "error", err)
	}
}

func (c *catalogCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
