package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func okHandler() (http.Handler, *int) {
	calls := new(int)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	}), calls
}

func TestContentLengthValidator(t *testing.T) {
	next, calls := okHandler()
	mw := ContentLengthValidator(1024)(next)

	t.Run("missing content length", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{}"))
		req.ContentLength = -1
		rr := httptest.NewRecorder()

		mw.ServeHTTP(rr, req)

		if rr.Code != http.StatusLengthRequired {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusLengthRequired)
		}
	})

	t.Run("too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(strings.Repeat("x", 2048)))
		rr := httptest.NewRecorder()

		mw.ServeHTTP(rr, req)

		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusRequestEntityTooLarge)
		}
	})

	t.Run("acceptable body", func(t *testing.T) {
		before := *calls
		req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{}"))
		rr := httptest.NewRecorder()

		mw.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		if *calls != before+1 {
			t.Error("next handler not called")
		}
	})

	t.Run("get requests skip validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()

		mw.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
		}
	})
}

func TestCORS(t *testing.T) {
	next, calls := okHandler()
	mw := CORS(next)

	t.Run("preflight", func(t *testing.T) {
		before := *calls
		req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
		rr := httptest.NewRecorder()

		mw.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusNoContent)
		}
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("allow-origin = %q, want *", got)
		}
		if *calls != before {
			t.Error("preflight must not reach the handler")
		}
	})

	t.Run("actual request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		rr := httptest.NewRecorder()

		mw.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("allow-origin = %q, want *", got)
		}
	})
}

func TestRateLimiter_NoRedisIsNoop(t *testing.T) {
	next, _ := okHandler()
	rl := NewRateLimiter(nil, RateLimitConfig{PostLimit: 1, GetLimit: 1, Window: time.Minute}, zerolog.Nop())
	mw := rl.Handler(next)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rr.Code, http.StatusOK)
		}
	}
}

func TestRateLimiter_EnforcesPostLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	next, _ := okHandler()
	rl := NewRateLimiter(rdb, RateLimitConfig{PostLimit: 2, GetLimit: 10, Window: time.Minute}, zerolog.Nop())
	mw := rl.Handler(next)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := post(); rr.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rr.Code, http.StatusOK)
		}
	}
	if rr := post(); rr.Code != http.StatusTooManyRequests {
		t.Errorf("third post: status = %d, want %d", rr.Code, http.StatusTooManyRequests)
	}

	// GETs have their own budget.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("get after post limit: status = %d, want %d", rr.Code, http.StatusOK)
	}

	// A different client is unaffected.
	req = httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	req.RemoteAddr = "198.51.100.9:4321"
	rr = httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("other client: status = %d, want %d", rr.Code, http.StatusOK)
	}

	// The window expiring resets the budget.
	mr.FastForward(2 * time.Minute)
	if rr := post(); rr.Code != http.StatusOK {
		t.Errorf("post after window: status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name         string
		realIP       string
		forwardedFor string
		remoteAddr   string
		want         string
	}{
		{"x-real-ip wins", "203.0.113.7", "198.51.100.1", "10.0.0.1:80", "203.0.113.7"},
		{"forwarded-for first hop", "", "198.51.100.1, 10.0.0.2", "10.0.0.1:80", "198.51.100.1"},
		{"forwarded-for single", "", "198.51.100.1", "10.0.0.1:80", "198.51.100.1"},
		{"remote addr fallback", "", "", "10.0.0.1:80", "10.0.0.1:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.forwardedFor)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
