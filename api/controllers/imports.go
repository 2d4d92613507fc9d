package controllers

import (
	"net/http"

	"github.com/labstockhq/labstock-backend/api/responses"
	"github.com/labstockhq/labstock-backend/internal/importer"
	"github.com/labstockhq/labstock-backend/pkg/config"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/logger"
)

// ItemsImport accepts a multipart spreadsheet upload under the "file" field
// and runs the parse, normalize, insert pipeline. Partial success returns 200
// with per-row problems; only file-level failures reject the request.
func ItemsImport(svc importer.Service, cfg config.ImportConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "import service unavailable"))
			return
		}

		if cfg.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
		}
		if err := r.ParseMultipartForm(cfg.MaxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read upload"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "a spreadsheet file is required"))
			return
		}
		defer file.Close()

		mode, err := importer.ParseMode(r.FormValue("mode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Import(r.Context(), file, header.Filename, mode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
