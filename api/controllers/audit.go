package controllers

import (
	"net/http"

	"github.com/aquasafi/aquasafi-backend/api/responses"
	"github.com/aquasafi/aquasafi-backend/internal/audit"
	"github.com/aquasafi/aquasafi-backend/pkg/logger"
)

func AuditList(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
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

		filter := audit.ListFilter{
			Resource: queryString(r, "resource"),
			Action:   queryString(r, "action"),
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
