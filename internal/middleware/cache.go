package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"mechanic-shop-api/internal/config"
)

// passThrough disables a middleware without changing the chain shape.
func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// cachedResponse is the envelope stored in redis for a cacheable GET.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// bodyRecorder tees the response body into a buffer so a successful GET can
// be stored after the handler runs. A body over the limit is served normally
// but never cached; a truncated entry would replay a corrupt response.
type bodyRecorder struct {
	http.ResponseWriter
	status     int
	buf        bytes.Buffer
	limit      int
	overflowed bool
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if !r.overflowed {
		if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
			r.overflowed = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// cacheKey hashes route and raw query under the configured prefix. The
// public listings this middleware fronts depend on nothing else about the
// request.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}

// NewRedisCache serves repeat GETs of the public listings straight from
// redis so they skip the database. Only 200 responses are stored. Disabled
// (or with redis down) it degrades to pass-through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cr cachedResponse
				if json.Unmarshal(bs, &cr) == nil && cr.Status != 0 {
					hdr := c.Response().Header()
					for k, vals := range cr.Header {
						if strings.EqualFold(k, "Content-Length") {
							continue
						}
						for _, v := range vals {
							hdr.Add(k, v)
						}
					}
					hdr.Set("X-Cache", "HIT")
					c.Response().WriteHeader(cr.Status)
					_, err := c.Response().Write(cr.Body)
					return err
				}
			}

			rec := &bodyRecorder{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          cfg.MaxBodyBytes,
			}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK && !rec.overflowed {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					if k == "X-Cache" {
						continue
					}
					hdr[k] = append([]string(nil), vals...)
				}
				cr := cachedResponse{Status: rec.status, Header: hdr, Body: rec.buf.Bytes()}
				if bs, err := json.Marshal(cr); err == nil {
					// Detached context: the store must not race request teardown.
					_ = rdb.SetEx(context.Background(), key, bs, ttl).Err()
				}
			}
			return nil
		}
	}
}
