package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/labstockhq/labstock-backend/api/responses"
	"github.com/labstockhq/labstock-backend/api/validators"
	"github.com/labstockhq/labstock-backend/internal/categories"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/logger"
)

type categoryCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

type thresholdUpsertRequest struct {
	Category         string           `json:"category" validate:"required"`
	DefaultThreshold *decimal.Decimal `json:"default_threshold"`
}

// CategoryList returns all categories.
func CategoryList(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}
		list, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": list})
	}
}

// CategoryCreate inserts one category.
func CategoryCreate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		var payload categoryCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// ThresholdList returns every per-category default threshold.
func ThresholdList(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}
		list, err := svc.ListThresholds(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"thresholds": list})
	}
}

// ThresholdUpsert sets or replaces the default threshold for a category name.
func ThresholdUpsert(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		var payload thresholdUpsertRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		threshold, err := svc.UpsertThreshold(r.Context(), payload.Category, payload.DefaultThreshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, threshold)
	}
}
