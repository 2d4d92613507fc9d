package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/labstockhq/labstock-backend/api/responses"
	"github.com/labstockhq/labstock-backend/api/validators"
	stocksvc "github.com/labstockhq/labstock-backend/internal/stock"
	"github.com/labstockhq/labstock-backend/pkg/enums"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/logger"
)

const maxNotesLen = 1000

type stockTransactionRequest struct {
	ItemID      uuid.UUID        `json:"item_id" validate:"required"`
	Type        string           `json:"type" validate:"required"`
	Quantity    decimal.Decimal  `json:"quantity" validate:"required"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	LocationID  *uuid.UUID       `json:"location_id"`
	Notes       *string          `json:"notes"`
	ReferenceID *string          `json:"reference_id"`
}

func (r stockTransactionRequest) toInput(userID uuid.UUID) (stocksvc.RecordInput, error) {
	txnType, err := enums.ParseTransactionType(r.Type)
	if err != nil {
		return stocksvc.RecordInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}
	notes := r.Notes
	if notes != nil {
		trimmed := validators.SanitizeString(*notes, maxNotesLen)
		notes = &trimmed
	}
	return stocksvc.RecordInput{
		ItemID:          r.ItemID,
		TransactionType: txnType,
		Quantity:        r.Quantity,
		UnitCost:        r.UnitCost,
		LocationID:      r.LocationID,
		UserID:          userID,
		Notes:           notes,
		ReferenceID:     r.ReferenceID,
	}, nil
}

// StockTransactionCreate records one stock movement for the acting user.
func StockTransactionCreate(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		userID, err := actingUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload stockTransactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.RecordTransaction(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

// StockTransactionsByItem lists the newest movements for one item.
func StockTransactionsByItem(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid item id"))
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		txns, err := svc.ListByItem(r.Context(), itemID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"transactions": txns})
	}
}

// StockLevelsByItem lists the per-location aggregates for one item.
func StockLevelsByItem(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid item id"))
			return
		}

		levels, err := svc.LevelsForItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"levels": levels})
	}
}
