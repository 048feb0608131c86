package session

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) SessionKey(jti string) string { return "aq:session:access:" + jti }

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestGenerateStoresToken(t *testing.T) {
	m, store := newTestManager()

	token, err := m.Generate(context.Background(), "jti-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if store.data["aq:session:access:jti-1"] != token {
		t.Fatal("token not stored under session key")
	}

	if _, err := m.Generate(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank jti")
	}
}

func TestRotateIssuesNewPairAndInvalidatesOld(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	token, err := m.Generate(ctx, "jti-old")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	newJTI, newToken, err := m.Rotate(ctx, "jti-old", token)
	if err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if newJTI == "" || newJTI == "jti-old" {
		t.Fatalf("expected fresh jti, got %q", newJTI)
	}
	if newToken == "" || newToken == token {
		t.Fatal("expected fresh refresh token")
	}
	if _, ok := store.data["aq:session:access:jti-old"]; ok {
		t.Fatal("old session should be deleted after rotation")
	}
	if store.data["aq:session:access:"+newJTI] != newToken {
		t.Fatal("new session not stored")
	}

	// Replaying the old token must fail.
	if _, _, err := m.Rotate(ctx, "jti-old", token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken on replay, got %v", err)
	}
}

func TestRotateRejectsMismatchedToken(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	if _, err := m.Generate(ctx, "jti-2"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, _, err := m.Rotate(ctx, "jti-2", "stolen-guess"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	token, err := m.Generate(ctx, "jti-3")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if err := m.Revoke(ctx, "jti-3"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if _, ok := store.data["aq:session:access:jti-3"]; ok {
		t.Fatal("session should be gone after revoke")
	}
	if _, _, err := m.Rotate(ctx, "jti-3", token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken after revoke, got %v", err)
	}
}
