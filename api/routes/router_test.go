package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	auditsvc "github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/internal/users"
	pkgAuth "github.com/aquasafi/aquasafi-backend/pkg/auth"
	"github.com/aquasafi/aquasafi-backend/pkg/auth/session"
	"github.com/aquasafi/aquasafi-backend/pkg/config"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

type fakeUsersService struct{}

func (fakeUsersService) GetProfile(_ context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID, Email: "tech@aquasafi.org", Role: enums.UserRoleTechnician, IsActive: true}, nil
}

func (fakeUsersService) UpdateProfile(_ context.Context, _ guard.Actor, userID uuid.UUID, _ users.UpdateProfileDTO) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (fakeUsersService) List(_ context.Context, _ guard.Actor, _ users.ListFilter, page pagination.Params) ([]users.UserDTO, pagination.Meta, error) {
	return nil, pagination.NewMeta(pagination.Normalize(page), 0), nil
}

func (fakeUsersService) SetActive(_ context.Context, _ guard.Actor, userID uuid.UUID, active bool) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID, IsActive: active}, nil
}

type fakeAuditService struct{}

func (fakeAuditService) List(_ context.Context, _ guard.Actor, _ auditsvc.ListFilter, page pagination.Params) ([]auditsvc.LogDTO, pagination.Meta, error) {
	return nil, pagination.NewMeta(pagination.Normalize(page), 0), nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "aquasafi", ExpirationMinutes: 30},
	}
	return NewRouter(Deps{
		Config: cfg,
		Logger: logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		Users:  fakeUsersService{},
		Audit:  fakeAuditService{},
	})
}

func bearerFor(t *testing.T, role enums.UserRole) string {
	t.Helper()
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "aquasafi", ExpirationMinutes: 30}
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewJTI(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireAToken(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{
		"/api/v1/users/me",
		"/api/v1/water-points",
		"/api/v1/dashboard/stats",
		"/api/v1/monitoring/system-health",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestProfileRouteServesAuthenticatedUser(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", bearerFor(t, enums.UserRoleTechnician))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuditLogsAreAdminOnly(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs", nil)
	req.Header.Set("Authorization", bearerFor(t, enums.UserRoleTechnician))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for technician, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs", nil)
	req.Header.Set("Authorization", bearerFor(t, enums.UserRoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestUserListAllowsSupervisors(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	req.Header.Set("Authorization", bearerFor(t, enums.UserRoleSupervisor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for supervisor, got %d", rec.Code)
	}
}
