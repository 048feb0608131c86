package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/internal/guard"
	pkgAuth "github.com/aquasafi/aquasafi-backend/pkg/auth"
	"github.com/aquasafi/aquasafi-backend/pkg/auth/session"
	"github.com/aquasafi/aquasafi-backend/pkg/config"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "aquasafi",
		ExpirationMinutes: 30,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, now time.Time, role enums.UserRole) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(cfg, now, pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    session.NewJTI(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID
}

func TestAuthRejectsMissingAndMalformedCredentials(t *testing.T) {
	cfg := testJWTConfig()
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"bearer only", "Bearer "},
		{"two segments", "Bearer abc.def"},
		{"garbage", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/water-points", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	token, _ := mintToken(t, cfg, time.Now().Add(-2*time.Hour), enums.UserRoleTechnician)

	r := httptest.NewRequest(http.MethodGet, "/water-points", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for an expired token, got %d", w.Code)
	}
}

func TestAuthSeedsActor(t *testing.T) {
	cfg := testJWTConfig()
	token, userID := mintToken(t, cfg, time.Now(), enums.UserRoleSupervisor)

	var seen guard.Actor
	var seenJTI string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ActorFromContext(r.Context())
		seenJTI = JTIFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/water-points", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seen.ID != userID || seen.Role != enums.UserRoleSupervisor {
		t.Fatalf("unexpected actor %+v", seen)
	}
	if seenJTI == "" {
		t.Fatal("expected jti to be seeded")
	}
}

func TestRequireRoleOrdering(t *testing.T) {
	guarded := RequireRole(nil, enums.UserRoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Unauthenticated requests fail 401 before any role decision.
	r := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	w := httptest.NewRecorder()
	guarded.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without an actor, got %d", w.Code)
	}

	// Wrong role fails 403.
	actor := guard.Actor{ID: uuid.New(), Role: enums.UserRoleTechnician}
	r = httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	r = r.WithContext(WithActor(r.Context(), actor))
	w = httptest.NewRecorder()
	guarded.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong role, got %d", w.Code)
	}

	// Allowed role passes.
	actor.Role = enums.UserRoleAdmin
	r = httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	r = r.WithContext(WithActor(r.Context(), actor))
	w = httptest.NewRecorder()
	guarded.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}
