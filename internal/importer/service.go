package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/labstockhq/labstock-backend/internal/inventory"
	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/metrics"
)

// Mode selects how normalized payloads reach the catalog.
type Mode string

const (
	// ModeInsert bulk-inserts every payload as a new row.
	ModeInsert Mode = "insert"
	// ModeUpsertSKU replaces existing rows that share a SKU.
	ModeUpsertSKU Mode = "upsert_sku"
)

// ParseMode validates the requested import mode, defaulting to insert.
func ParseMode(raw string) (Mode, error) {
	switch raw {
	case "", string(ModeInsert):
		return ModeInsert, nil
	case string(ModeUpsertSKU):
		return ModeUpsertSKU, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported import mode %q", raw))
	}
}

// Result reports one import run: rows accepted by the store plus every
// per-row problem collected along the way.
type Result struct {
	Accepted int      `json:"accepted"`
	Skipped  int      `json:"skipped"`
	Problems []string `json:"problems"`
}

type categoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

type locationLister interface {
	List(ctx context.Context) ([]models.Location, error)
}

// Service runs the parse, normalize, insert pipeline for uploaded sheets.
type Service interface {
	Import(ctx context.Context, r io.Reader, filename string, mode Mode) (*Result, error)
}

type service struct {
	items      inventory.ItemRepository
	categories categoryLister
	locations  locationLister
	maxRows    int
	metrics    *metrics.WorkflowMetrics
}

// NewService builds an import service. maxRows guards against runaway
// uploads; zero disables the guard.
func NewService(
	items inventory.ItemRepository,
	categories categoryLister,
	locations locationLister,
	maxRows int,
	workflowMetrics *metrics.WorkflowMetrics,
) (Service, error) {
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category lister required")
	}
	if locations == nil {
		return nil, fmt.Errorf("location lister required")
	}
	return &service{
		items:      items,
		categories: categories,
		locations:  locations,
		maxRows:    maxRows,
		metrics:    workflowMetrics,
	}, nil
}

// Import parses the sheet, normalizes every row, and writes the surviving
// payloads in one batch. Individual bad rows degrade to problem strings; only
// file-level failures (unparseable upload, store rejection) return an error.
func (s *service) Import(ctx context.Context, r io.Reader, filename string, mode Mode) (*Result, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	rows, err := Parse(r, format)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file contains no data rows")
	}
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file has %d rows, the limit is %d", len(rows), s.maxRows))
	}

	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load categories")
	}
	locs, err := s.locations.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load locations")
	}

	normalized := Normalize(rows, CategoryLookup(cats), LocationLookup(locs))

	result := &Result{
		Skipped:  len(rows) - len(normalized.Payloads),
		Problems: normalized.Problems,
	}
	if result.Problems == nil {
		result.Problems = []string{}
	}
	if len(normalized.Payloads) == 0 {
		s.metrics.AddImportRows("skipped", result.Skipped)
		return result, nil
	}

	items := make([]models.InventoryItem, 0, len(normalized.Payloads))
	for _, payload := range normalized.Payloads {
		items = append(items, *itemFromUpsert(payload))
	}

	if mode == ModeUpsertSKU {
		err = s.items.BatchUpsertBySKU(ctx, items)
	} else {
		err = s.items.BatchCreate(ctx, items)
	}
	if err != nil {
		// the store error goes back verbatim so the operator can see which
		// constraint the batch tripped
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("batch insert failed: %v", err))
	}

	result.Accepted = len(items)
	s.metrics.AddImportRows("inserted", result.Accepted)
	s.metrics.AddImportRows("skipped", result.Skipped)
	return result, nil
}

func itemFromUpsert(u inventory.ItemUpsert) *models.InventoryItem {
	return &models.InventoryItem{
		Name:              u.Name,
		Category:          u.Category,
		Units:             u.Units,
		UnitType:          u.UnitType,
		PricePerUnit:      u.PricePerUnit,
		Location:          u.Location,
		DateAdded:         u.DateAdded,
		Notes:             u.Notes,
		ExpirationDate:    u.ExpirationDate,
		BatchLot:          u.BatchLot,
		OpenedAt:          u.OpenedAt,
		MSDSURL:           u.MSDSURL,
		LowStockThreshold: u.LowStockThreshold,
		SKU:               u.SKU,
	}
}
