package controllers

import (
	"net/http"

	"github.com/aquasafi/aquasafi-backend/api/responses"
	"github.com/aquasafi/aquasafi-backend/api/validators"
	"github.com/aquasafi/aquasafi-backend/internal/usage"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
)

func UsageRecord(svc usage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var dto usage.RecordUsageDTO
		if err := validators.DecodeJSONBody(r, &dto); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recorded, err := svc.Record(r.Context(), actor, dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, recorded)
	}
}

func UsageList(svc usage.Service, logg *logger.Logger) http.HandlerFunc {
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

		filter := usage.ListFilter{UsageType: queryString(r, "usage_type")}
		if filter.WaterPointID, err = queryUUID(r, "water_point_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.UserID, err = queryUUID(r, "user_id"); err != nil {
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

		items, meta, err := svc.List(r.Context(), actor, filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, items, meta)
	}
}

func UsageTrends(svc usage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		waterPointID, err := queryUUID(r, "water_point_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := svc.Trends(r.Context(), waterPointID, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}
