package middlewares_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	mw "github.com/eldieng/Fawsayni-Tech/internal/api/middlewares"
	"github.com/redis/go-redis/v9"
)

func TestPerIPKey(t *testing.T) {
	key := mw.PerIPKey("rl")
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	if got := key(req); got != "rl:10.0.0.7" {
		t.Errorf("expected rl:10.0.0.7, got %s", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := key(req); got != "rl:203.0.113.9" {
		t.Errorf("expected forwarded client, got %s", got)
	}
}

func TestFixedWindow_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	limiter := mw.NewFixedWindow(rdb, 1, time.Minute, mw.PerIPKey("rl"), "slow down")
	h := limiter.Middleware(http.HandlerFunc(ok))
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/books", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected fail-open 200, got %d", i, rec.Code)
		}
	}
}

func TestFixedWindow_NilPassesThrough(t *testing.T) {
	var limiter *mw.FixedWindow
	rec := httptest.NewRecorder()
	limiter.Middleware(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// windowHook answers INCR, PTTL and PEXPIRE from memory so the limiter runs
// without a Redis server.
type windowHook struct {
	mu   sync.Mutex
	hits map[string]int64
	ttl  map[string]time.Duration
}

func newWindowHook() *windowHook {
	return &windowHook{hits: map[string]int64{}, ttl: map[string]time.Duration{}}
}

func (h *windowHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *windowHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.apply(cmd)
		return nil
	}
}

func (h *windowHook) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			h.apply(cmd)
		}
		return nil
	}
}

func (h *windowHook) apply(cmd redis.Cmder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	args := cmd.Args()
	if len(args) < 2 {
		return // MULTI / EXEC
	}
	key, _ := args[1].(string)
	switch c := cmd.(type) {
	case *redis.IntCmd:
		h.hits[key]++
		c.SetVal(h.hits[key])
	case *redis.DurationCmd:
		if d, ok := h.ttl[key]; ok {
			c.SetVal(d)
		} else {
			c.SetVal(-1)
		}
	case *redis.BoolCmd:
		ms, _ := args[2].(int64)
		h.ttl[key] = time.Duration(ms) * time.Millisecond
		c.SetVal(true)
	}
}

func TestFixedWindow_DeniesOverLimit(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	rdb.AddHook(newWindowHook())

	limiter := mw.NewFixedWindow(rdb, 2, 30*time.Second, mw.PerIPKey("rl"), "Trop de requêtes")
	h := limiter.Middleware(http.HandlerFunc(ok))
	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/api/books", nil)
		req.RemoteAddr = ip + ":4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i, wantLeft := range []string{"1", "0"} {
		rec := hit("10.0.0.7")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != wantLeft {
			t.Errorf("request %d: expected remaining %s, got %s", i, wantLeft, got)
		}
	}

	rec := hit("10.0.0.7")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Errorf("expected Retry-After 30, got %q", got)
	}
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "fail" || body.Message != "Trop de requêtes" {
		t.Errorf("unexpected body %+v", body)
	}

	if rec := hit("10.0.0.8"); rec.Code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", rec.Code)
	}
}
