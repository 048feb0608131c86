package controllers

import (
	"net/http"

	"github.com/aquasafi/aquasafi-backend/api/responses"
	"github.com/aquasafi/aquasafi-backend/api/validators"
	"github.com/aquasafi/aquasafi-backend/internal/quality"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
)

func QualityCheckCreate(svc quality.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var dto quality.CreateQualityCheckDTO
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

func QualityCheckGet(svc quality.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		check, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, check)
	}
}

func QualityCheckList(svc quality.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filter quality.ListFilter
		if filter.WaterPointID, err = queryUUID(r, "water_point_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.IsSafe, err = queryBool(r, "is_safe"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.From, err = queryTime(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.To, err = queryTime(r, "to"); err != nil {
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
