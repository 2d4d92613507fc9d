package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/labstockhq/labstock-backend/api/middleware"
	"github.com/labstockhq/labstock-backend/api/responses"
	"github.com/labstockhq/labstock-backend/api/validators"
	checkoutsvc "github.com/labstockhq/labstock-backend/internal/checkout"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/logger"
)

const maxPurposeLen = 500

type checkoutLinePayload struct {
	ItemID     uuid.UUID `json:"item_id" validate:"required"`
	LocationID uuid.UUID `json:"location_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,gt=0"`
}

type checkoutSubmitRequest struct {
	Purpose    string                `json:"purpose" validate:"required"`
	ReturnDate string                `json:"return_date"`
	Items      []checkoutLinePayload `json:"items" validate:"required,min=1,dive"`
}

func (r checkoutSubmitRequest) toInput(userID uuid.UUID) checkoutsvc.SubmitInput {
	lines := make([]checkoutsvc.LineInput, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, checkoutsvc.LineInput{
			ItemID:     item.ItemID,
			LocationID: item.LocationID,
			Quantity:   item.Quantity,
		})
	}
	return checkoutsvc.SubmitInput{
		UserID:     userID,
		Purpose:    validators.SanitizeString(r.Purpose, maxPurposeLen),
		ReturnDate: validators.SanitizeString(r.ReturnDate, 0),
		Lines:      lines,
	}
}

// CheckoutSubmit runs the submission pipeline for the acting user's cart.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := actingUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutSubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Submit(r.Context(), payload.toInput(userID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// CheckoutDetail loads one checkout with its lines.
func CheckoutDetail(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "checkoutId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout id"))
			return
		}

		record, err := svc.GetCheckout(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// CheckoutList returns the acting user's newest checkouts.
func CheckoutList(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := actingUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		records, err := svc.ListByUser(r.Context(), userID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"checkouts": records})
	}
}

func actingUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid user context")
	}
	return userID, nil
}
