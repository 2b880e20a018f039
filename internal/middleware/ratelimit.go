package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"mechanic-shop-api/internal/config"
)

// bucketScript runs the whole take-one-token step atomically in redis. State
// is a hash of remaining tokens plus the timestamp of the last refill tick.
// It returns {allowed, tokens left, ms until the next token} so the caller
// can fill the rate-limit headers without a second round trip.
var bucketScript = redis.NewScript(`
	local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
	local stamp = tonumber(redis.call('HGET', KEYS[1], 'stamp'))
	local now = tonumber(ARGV[1])
	local cap = tonumber(ARGV[2])
	local refill = tonumber(ARGV[3])
	local step = tonumber(ARGV[4])
	local ttl = tonumber(ARGV[5])

	if not tokens or not stamp then
		tokens = cap
		stamp = now
	else
		local ticks = math.floor((now - stamp) / step)
		if ticks > 0 then
			tokens = math.min(cap, tokens + ticks * refill)
			stamp = stamp + ticks * step
		end
	end

	local allowed = 0
	local wait = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		wait = step - (now - stamp)
		if wait < 0 then wait = 0 end
	end

	redis.call('HSET', KEYS[1], 'tokens', tokens, 'stamp', stamp)
	redis.call('EXPIRE', KEYS[1], ttl)
	return {allowed, tokens, wait}
`)

// rateKey buckets per client IP and route, so one noisy caller cannot
// exhaust an endpoint for everyone.
func rateKey(prefix string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return prefix + ":" + ip + ":" + c.Request().Method + ":" + c.Path()
}

// NewTokenBucket rate-limits requests with a redis-backed token bucket. The
// state lives in redis so multiple instances share one budget; with redis
// disabled or unreachable requests pass through unlimited.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg.Prefix, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}

			vals, err := bucketScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
			if err != nil {
				c.Logger().Warnf("rate limit script failed for %s: %v", key, err)
				return next(c)
			}
			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 3 {
				c.Logger().Warnf("rate limit script returned %#v for %s", vals, key)
				return next(c)
			}
			allowed := asInt64(arr[0]) == 1
			remaining := asInt64(arr[1])
			waitMs := asInt64(arr[2])

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(waitMs) / 1000.0))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too many requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func asInt64(v interface{}) int64 {
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
