package auth_test

import (
	stdErrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/aquasafi/aquasafi-backend/pkg/auth"
	"github.com/aquasafi/aquasafi-backend/pkg/config"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "aquasafi-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()
	userID := uuid.New()

	signed, err := auth.MintAccessToken(cfg, now, auth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleTechnician,
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	claims, err := auth.ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.UserRoleTechnician {
		t.Fatalf("expected technician role, got %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	_, err := auth.MintAccessToken(testJWTConfig(), time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRole("plumber"),
	})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := auth.MintAccessToken(cfg, time.Now().Add(-time.Hour), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	_, err = auth.ParseAccessToken(cfg, signed)
	if !stdErrors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseAccessTokenMalformed(t *testing.T) {
	cfg := testJWTConfig()
	for _, candidate := range []string{"", "abc", "a.b", "a.b.c.d", "not a token"} {
		_, err := auth.ParseAccessToken(cfg, candidate)
		if !stdErrors.Is(err, auth.ErrTokenMalformed) {
			t.Fatalf("candidate %q: expected ErrTokenMalformed, got %v", candidate, err)
		}
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleSupervisor,
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	other := cfg
	other.Secret = "rotated-secret"
	_, err = auth.ParseAccessToken(other, signed)
	if !stdErrors.Is(err, auth.ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestParseAccessTokenTampered(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCommunityMember,
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	parts := strings.Split(signed, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := auth.ParseAccessToken(cfg, tampered); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := auth.MintAccessToken(cfg, time.Now().Add(-time.Hour), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
		JTI:    "refresh-jti",
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	claims, err := auth.ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessTokenAllowExpired returned error: %v", err)
	}
	if claims.ID != "refresh-jti" {
		t.Fatalf("expected jti to survive expired parse, got %q", claims.ID)
	}
}
