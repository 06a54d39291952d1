package rate_limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddlewareLimitsPerClient(t *testing.T) {
	l := New(0.001, 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("request %d: got %d, want %d", i, codes[i], want[i])
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("other client: got %d, want 200", rr.Code)
	}
}

func TestCleanup(t *testing.T) {
	l := New(1, 1)
	l.idle = time.Millisecond
	l.GetVisitor("a")
	time.Sleep(5 * time.Millisecond)
	l.GetVisitor("b")

	l.Cleanup()

	if l.Visitors() != 1 {
		t.Fatalf("expected 1 visitor after cleanup, got %d", l.Visitors())
	}

	l.CleanupAllVisitors()
	if l.Visitors() != 0 {
		t.Fatalf("expected no visitors, got %d", l.Visitors())
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:443"
	if got := ClientIP(req); got != "192.168.1.9" {
		t.Fatalf("ClientIP() = %s", got)
	}
	req.RemoteAddr = "192.168.1.9"
	if got := ClientIP(req); got != "192.168.1.9" {
		t.Fatalf("ClientIP() without port = %s", got)
	}
}
