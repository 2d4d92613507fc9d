package controllers

import (
	"net/http"

	"github.com/labstockhq/labstock-backend/api/responses"
	summarysvc "github.com/labstockhq/labstock-backend/internal/summary"
	"github.com/labstockhq/labstock-backend/pkg/config"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/logger"
)

// SummaryOverview returns the dashboard aggregate.
func SummaryOverview(svc summarysvc.Service, cfg config.WorkerConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "summary service unavailable"))
			return
		}

		overview, err := svc.Overview(r.Context(), cfg.ExpiryWindowDays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// SummaryLowStock returns only the low-stock slice of the dashboard.
func SummaryLowStock(svc summarysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "summary service unavailable"))
			return
		}

		low, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"low_stock": low})
	}
}
