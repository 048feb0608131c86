package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/api/middleware"
	"github.com/aquasafi/aquasafi-backend/api/validators"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/pagination"
)

// actorFrom resolves the authenticated actor seeded by the Auth
// middleware. Routes behind Auth always have one; a miss is a wiring
// bug surfaced as 401 rather than a panic.
func actorFrom(r *http.Request) (guard.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return guard.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return actor, nil
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name).
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

func parsePagination(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}

func queryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func queryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := queryString(r, key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key).
			WithDetails(map[string]any{"field": key})
	}
	return &id, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	raw := queryString(r, key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key).
			WithDetails(map[string]any{"field": key})
	}
	return &v, nil
}

func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := queryString(r, key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key+", expected RFC3339").
			WithDetails(map[string]any{"field": key})
	}
	return &t, nil
}
