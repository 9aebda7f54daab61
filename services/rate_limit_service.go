package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitResult carries the limiter decision plus quota metadata for the
// X-RateLimit response headers.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RateLimiterInterface defines the contract for rate limiting operations.
type RateLimiterInterface interface {
	Limit(ctx context.Context, key string) (RateLimitResult, error)
	Enabled() bool
}

// RateLimitService provides sliding-window rate limiting backed by a Redis
// sorted set per key: request timestamps are the scores, entries older than
// the window are pruned on every check.
type RateLimitService struct {
	redis     *redis.Client
	keyPrefix string
	requests  int
	window    time.Duration
}

// NewRateLimitService creates a limiter allowing `requests` per `window` per
// key. A nil Redis client yields a disabled limiter (fail-open).
func NewRateLimitService(redisClient *redis.Client, requests int, window time.Duration) *RateLimitService {
	return &RateLimitService{
		redis:     redisClient,
		keyPrefix: "ratelimit:leads:",
		requests:  requests,
		window:    window,
	}
}

// Enabled reports whether a rate-limit backend is provisioned.
func (s *RateLimitService) Enabled() bool {
	return s.redis != nil
}

// GetRedisClient exposes the underlying client for health checks.
func (s *RateLimitService) GetRedisClient() *redis.Client {
	return s.redis
}

// Limit records one request for the key and returns the window decision.
// Rejected requests still count toward the window, matching sliding-window-log
// semantics: a client hammering the endpoint keeps itself limited.
func (s *RateLimitService) Limit(ctx context.Context, key string) (RateLimitResult, error) {
	if s.redis == nil {
		return RateLimitResult{Allowed: true, Limit: s.requests, Remaining: s.requests}, nil
	}

	now := time.Now()
	rKey := s.keyPrefix + key
	windowStart := now.Add(-s.window)

	// Member must be unique per request; timestamp alone can collide for
	// concurrent requests from one IP.
	member := fmt.Sprintf("%d-%s", now.UnixNano(), uuid.New().String())

	pipe := s.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, rKey, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, rKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	card := pipe.ZCard(ctx, rKey)
	pipe.Expire(ctx, rKey, s.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return RateLimitResult{}, err
	}

	count := int(card.Val())
	remaining := s.requests - count
	if remaining < 0 {
		remaining = 0
	}

	result := RateLimitResult{
		Allowed:   count <= s.requests,
		Limit:     s.requests,
		Remaining: remaining,
		Reset:     now.Add(s.window),
	}

	if !result.Allowed {
		// The window resets when the oldest tracked request ages out.
		oldest, err := s.redis.ZRangeWithScores(ctx, rKey, 0, 0).Result()
		if err == nil && len(oldest) > 0 {
			result.Reset = time.Unix(0, int64(oldest[0].Score)).Add(s.window)
		}
	}

	return result, nil
}
