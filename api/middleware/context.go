package middleware

import (
	"context"

	"github.com/aquasafi/aquasafi-backend/internal/guard"
)

type contextKey string

const (
	ctxActor contextKey = "actor"
	ctxJTI   contextKey = "jti"
)

// ActorFromContext returns the authenticated actor seeded by Auth.
func ActorFromContext(ctx context.Context) (guard.Actor, bool) {
	if ctx == nil {
		return guard.Actor{}, false
	}
	actor, ok := ctx.Value(ctxActor).(guard.Actor)
	return actor, ok
}

// JTIFromContext returns the token's session identifier.
func JTIFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxJTI).(string); ok {
		return v
	}
	return ""
}

// WithActor injects an authenticated actor, used by handler tests.
func WithActor(ctx context.Context, actor guard.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// WithJTI injects the session identifier alongside the actor.
func WithJTI(ctx context.Context, jti string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxJTI, jti)
}
