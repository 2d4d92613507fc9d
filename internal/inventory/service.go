package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/pagination"
)

// Service exposes catalog operations over sanitized payloads.
type Service interface {
	CreateItem(ctx context.Context, input map[string]any) (*models.InventoryItem, []string, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input map[string]any) (*models.InventoryItem, []string, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.InventoryItem, string, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo ItemRepository
}

// NewService builds an inventory service backed by the provided repository.
func NewService(repo ItemRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{repo: repo}, nil
}

// CreateItem sanitizes the raw payload and inserts a catalog row. Warnings
// report fields that were dropped during coercion without failing the insert.
func (s *service) CreateItem(ctx context.Context, input map[string]any) (*models.InventoryItem, []string, error) {
	upsert, warnings := Sanitize(input)
	if upsert.Name == "" {
		return nil, warnings, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if upsert.Units != nil && upsert.Units.IsNegative() {
		return nil, warnings, pkgerrors.New(pkgerrors.CodeValidation, "units must not be negative")
	}

	item := applyUpsert(&models.InventoryItem{}, upsert)
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, warnings, pkgerrors.New(pkgerrors.CodeConflict, "an item with this sku already exists")
		}
		return nil, warnings, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create item")
	}
	return created, warnings, nil
}

// UpdateItem sanitizes the raw payload and replaces the item's editable fields.
func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input map[string]any) (*models.InventoryItem, []string, error) {
	existing, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	upsert, warnings := Sanitize(input)
	if upsert.Name == "" {
		return nil, warnings, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if upsert.Units != nil && upsert.Units.IsNegative() {
		return nil, warnings, pkgerrors.New(pkgerrors.CodeValidation, "units must not be negative")
	}

	updated, err := s.repo.Update(ctx, applyUpsert(existing, upsert))
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, warnings, pkgerrors.New(pkgerrors.CodeConflict, "an item with this sku already exists")
		}
		return nil, warnings, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update item")
	}
	return updated, warnings, nil
}

// GetItem loads a single catalog item.
func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load item")
	}
	return item, nil
}

// ListItems returns one page of the catalog and the cursor for the next page.
func (s *service) ListItems(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.InventoryItem, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	items, err := s.repo.List(ctx, filter, cursor, limit+1)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list items")
	}

	next := ""
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return items, next, nil
}

// DeleteItem removes a catalog item.
func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete item")
	}
	return nil
}

func applyUpsert(item *models.InventoryItem, upsert ItemUpsert) *models.InventoryItem {
	item.Name = upsert.Name
	item.Category = upsert.Category
	item.Units = upsert.Units
	item.UnitType = upsert.UnitType
	item.PricePerUnit = upsert.PricePerUnit
	item.Location = upsert.Location
	item.DateAdded = upsert.DateAdded
	item.Notes = upsert.Notes
	item.ExpirationDate = upsert.ExpirationDate
	item.BatchLot = upsert.BatchLot
	item.OpenedAt = upsert.OpenedAt
	item.MSDSURL = upsert.MSDSURL
	item.LowStockThreshold = upsert.LowStockThreshold
	item.SKU = upsert.SKU
	return item
}
