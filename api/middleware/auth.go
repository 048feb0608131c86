package middleware

import (
	"net/http"
	"strings"

	"github.com/aquasafi/aquasafi-backend/api/responses"
	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	pkgAuth "github.com/aquasafi/aquasafi-backend/pkg/auth"
	"github.com/aquasafi/aquasafi-backend/pkg/config"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// authenticated actor. Access tokens are self-contained; revocation
// applies to the refresh session, not to outstanding access tokens.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			actor := guard.Actor{ID: claims.UserID, Role: claims.Role}
			ctx := WithActor(r.Context(), actor)
			ctx = WithJTI(ctx, claims.ID)
			ctx = audit.WithRequestMeta(ctx, audit.RequestMeta{
				IPAddress: clientIP(r),
				UserAgent: r.UserAgent(),
			})

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    actor.ID.String(),
					"actor_role": string(actor.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
