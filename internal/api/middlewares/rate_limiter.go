package middlewares

import (
	"context"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eldieng/Fawsayni-Tech/internal/api/httpx"
	"github.com/redis/go-redis/v9"
)

// --------- Key helpers ---------

type KeyFunc func(r *http.Request) string

// PerIPKey buckets requests by client address.
func PerIPKey(prefix string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		return prefix + ":" + ip
	}
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For may have a list: client, proxy1, proxy2...
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// --------- Fixed window (Redis INCR + PEXPIRE) ---------

// FixedWindow admits Limit requests per key per Window. Redis errors let
// the request through.
type FixedWindow struct {
	rdb     redis.Cmdable
	keyFn   KeyFunc
	limit   int64
	window  time.Duration
	message string
}

func NewFixedWindow(rdb redis.Cmdable, limit int, window time.Duration, keyFn KeyFunc, message string) *FixedWindow {
	return &FixedWindow{rdb: rdb, keyFn: keyFn, limit: int64(limit), window: window, message: message}
}

// Allow counts one hit for key and reports whether it is within the limit,
// how many hits remain and how long until the window resets.
func (f *FixedWindow) Allow(ctx context.Context, key string) (bool, int64, time.Duration, error) {
	pipe := f.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, f.limit, 0, err
	}
	n, left := incr.Val(), ttl.Val()
	if left < 0 {
		// first hit in the window, or a key that lost its expiry
		if err := f.rdb.PExpire(ctx, key, f.window).Err(); err != nil {
			return true, f.limit, 0, err
		}
		left = f.window
	}
	return n <= f.limit, max(f.limit-n, 0), left, nil
}

func (f *FixedWindow) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f == nil || f.rdb == nil || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		ok, remaining, reset, err := f.Allow(ctx, f.keyFn(r))
		if err != nil {
			log.Printf("[RateLimit] redis error, failing open: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(f.limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int((reset+time.Second-1)/time.Second)))
			httpx.Error(w, http.StatusTooManyRequests, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}
