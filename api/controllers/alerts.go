package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/aquasafi/aquasafi-backend/api/responses"
	"github.com/aquasafi/aquasafi-backend/api/validators"
	"github.com/aquasafi/aquasafi-backend/internal/alerts"
	"github.com/aquasafi/aquasafi-backend/internal/guard"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
)

func AlertCreate(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var dto alerts.CreateAlertDTO
		if err := validators.DecodeJSONBody(r, &dto); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), actor, dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AlertGet(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		alert, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alert)
	}
}

func AlertList(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := alerts.ListFilter{Type: queryString(r, "type")}
		if raw := queryString(r, "status"); raw != "" {
			status, err := enums.ParseAlertStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filter.Status = &status
		}
		if raw := queryString(r, "priority"); raw != "" {
			priority, err := enums.ParseAlertPriority(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority"))
				return
			}
			filter.Priority = &priority
		}
		if filter.WaterPointID, err = queryUUID(r, "water_point_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, meta, err := svc.List(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, items, meta)
	}
}

func AlertAcknowledge(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return alertTransition(svc, logg, func(svc alerts.Service) transitionFn { return svc.Acknowledge })
}

func AlertResolve(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return alertTransition(svc, logg, func(svc alerts.Service) transitionFn { return svc.Resolve })
}

type transitionFn = func(ctx context.Context, actor guard.Actor, id uuid.UUID) (*alerts.AlertDTO, error)

func alertTransition(svc alerts.Service, logg *logger.Logger, pick func(alerts.Service) transitionFn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := pick(svc)(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
