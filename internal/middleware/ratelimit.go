package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/venue-directory/internal/config"
)

// tokenBucketScript refills KEYS[1] by whole intervals since its last
// refill and takes one token. ARGV: now_ms, capacity, refill, interval_ms,
// ttl_s. Returns {taken, tokens_left, wait_ms}.
var tokenBucketScript = redis.NewScript(`
local now, cap, refill = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3])
local every, ttl = tonumber(ARGV[4]), tonumber(ARGV[5])

local cur = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(cur[1]) or cap
local ts = tonumber(cur[2]) or now

if every > 0 then
  local n = math.floor(math.max(0, now - ts) / every)
  if n > 0 then
    tokens = math.min(cap, tokens + n * refill)
    ts = ts + n * every
  end
end

local taken, wait = 0, 0
if tokens >= 1 then
  taken = 1
  tokens = tokens - 1
else
  wait = math.max(0, every - (now - ts))
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'ts', ts)
redis.call('EXPIRE', KEYS[1], ttl)
return {taken, tokens, wait}
`)

type bucketResult struct {
	taken     bool
	remaining int64
	wait      time.Duration
}

// take runs the script for key and decodes its reply.
func take(ctx context.Context, rdb redis.Scripter, cfg config.RateLimitConfig, key string) (bucketResult, error) {
	reply, err := tokenBucketScript.Run(ctx, rdb, []string{key},
		time.Now().UnixMilli(),
		cfg.Capacity,
		cfg.RefillTokens,
		cfg.RefillInterval.Milliseconds(),
		int64(cfg.TTL/time.Second),
	).Slice()
	if err != nil {
		return bucketResult{}, err
	}
	if len(reply) != 3 {
		return bucketResult{}, fmt.Errorf("ratelimit: unexpected reply %v", reply)
	}
	return bucketResult{
		taken:     asInt64(reply[0]) == 1,
		remaining: asInt64(reply[1]),
		wait:      time.Duration(asInt64(reply[2])) * time.Millisecond,
	}, nil
}

// NewTokenBucket limits requests per key with a token bucket kept in Redis.
// Requests pass through untouched when the limiter is disabled or rdb is
// nil, and on any Redis error.
func NewTokenBucket(cfg config.RateLimitConfig, rdb redis.Scripter) echo.MiddlewareFunc {
	if !cfg.Enabled || isNilScripter(rdb) {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			log := Logger(c).WithField("key", key)

			res, err := take(c.Request().Context(), rdb, cfg, key)
			if err != nil {
				log.WithError(err).Warn("ratelimit: redis unavailable, request allowed")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if res.taken {
				return next(c)
			}

			secs := int(math.Ceil(res.wait.Seconds()))
			h.Set("Retry-After", strconv.Itoa(secs))
			if cfg.Debug {
				log.Infof("ratelimit: blocked for %s", res.wait)
			}
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "too many requests",
				"retry_after": secs,
			})
		}
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// buildRateKey joins the prefix with the parts the strategy selects:
// "ip", "route" or, by default, both.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "route":
		parts = append(parts, "route", route)
	default:
		parts = append(parts, "ip", ip, "route", route)
	}
	return strings.Join(parts, ":")
}

func isNilScripter(s redis.Scripter) bool {
	if s == nil {
		return true
	}
	c, ok := s.(*redis.Client)
	return ok && c == nil
}
