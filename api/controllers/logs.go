package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/stockline-backend/api/middleware"
	"github.com/angelmondragon/stockline-backend/api/responses"
	"github.com/angelmondragon/stockline-backend/api/validators"
	"github.com/angelmondragon/stockline-backend/internal/auditlog"
	pkgAuth "github.com/angelmondragon/stockline-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"github.com/angelmondragon/stockline-backend/pkg/logger"
	"github.com/angelmondragon/stockline-backend/pkg/pagination"
)

type auditLogLister interface {
	List(ctx context.Context, params pagination.Params, req pkgAuth.Requester) (pagination.Page[auditlog.Entry], error)
}

// AuditLogs returns the newest audit entries first, one cursor page at a time.
func AuditLogs(svc auditLogLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit log unavailable"))
			return
		}
		req, err := middleware.MustRequester(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor, err := validators.QueryToken(r, "cursor", 256)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{Limit: limit, Cursor: cursor}
		page, err := svc.List(r.Context(), params, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
