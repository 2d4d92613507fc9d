package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstockhq/labstock-backend/api/responses"
	"github.com/labstockhq/labstock-backend/internal/inventory"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/logger"
)

// ItemsExport streams the catalog as a CSV or XLSX download.
func ItemsExport(exporter *inventory.Exporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if exporter == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "export unavailable"))
			return
		}

		format, err := inventory.ParseExportFormat(r.URL.Query().Get("format"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))

		if err := exporter.Export(r.Context(), w, format); err != nil {
			// headers are out the door, log instead of writing a JSON error
			if logg != nil {
				logg.Error(r.Context(), "export stream failed", err)
			}
		}
	}
}
