package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{counts: map[string]int64{}}
}

func (f *fakeCounterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func postLogin(handler http.Handler, body, ip string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	r.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func TestAuthRateLimitBlocksPerEmail(t *testing.T) {
	store := newFakeCounterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 100, 3)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"email":"tech@example.com","password":"x"}`
	for i := 0; i < 3; i++ {
		if w := postLogin(handler, body, "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, w.Code)
		}
	}
	if w := postLogin(handler, body, "10.0.0.2"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on the fourth attempt, got %d", w.Code)
	}

	// Another account is unaffected.
	other := `{"email":"other@example.com","password":"x"}`
	if w := postLogin(handler, other, "10.0.0.3"); w.Code != http.StatusOK {
		t.Fatalf("expected other email to pass, got %d", w.Code)
	}
}

func TestAuthRateLimitBlocksPerIP(t *testing.T) {
	store := newFakeCounterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 100)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		body := `{"email":"user` + string(rune('a'+i)) + `@example.com"}`
		if w := postLogin(handler, body, "10.0.0.9"); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, w.Code)
		}
	}
	if w := postLogin(handler, `{"email":"fresh@example.com"}`, "10.0.0.9"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on the third attempt from the same ip, got %d", w.Code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := AuthRateLimit(AuthRateLimitPolicy{}, newFakeCounterStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 20; i++ {
		if w := postLogin(handler, `{"email":"tech@example.com"}`, "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", w.Code)
		}
	}
}
