package controllers

import (
	"net/http"

	"github.com/aquasafi/aquasafi-backend/api/responses"
	"github.com/aquasafi/aquasafi-backend/api/validators"
	"github.com/aquasafi/aquasafi-backend/internal/maintenance"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
)

func TaskCreate(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var dto maintenance.CreateTaskDTO
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

func TaskGet(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
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

		task, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, task)
	}
}

func TaskList(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filter maintenance.ListFilter
		if filter.WaterPointID, err = queryUUID(r, "water_point_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.TechnicianID, err = queryUUID(r, "technician_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := queryString(r, "status"); raw != "" {
			status, err := enums.ParseTaskStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filter.Status = &status
		}
		if raw := queryString(r, "priority"); raw != "" {
			priority, err := enums.ParseTaskPriority(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority"))
				return
			}
			filter.Priority = &priority
		}

		items, meta, err := svc.List(r.Context(), actor, filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, items, meta)
	}
}

func TaskUpdate(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
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

		var dto maintenance.UpdateTaskDTO
		if err := validators.DecodeJSONBody(r, &dto); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), actor, id, dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
