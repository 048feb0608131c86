package controllers

import (
	"net/http"

	"github.com/aquasafi/aquasafi-backend/api/responses"
	"github.com/aquasafi/aquasafi-backend/api/validators"
	"github.com/aquasafi/aquasafi-backend/internal/payments"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
	pkgerrors "github.com/aquasafi/aquasafi-backend/pkg/errors"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
)

func PaymentRecord(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var dto payments.RecordPaymentDTO
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

func PaymentList(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
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

		var filter payments.ListFilter
		if filter.UserID, err = queryUUID(r, "user_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := queryString(r, "status"); raw != "" {
			status, err := enums.ParsePaymentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filter.Status = &status
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
