package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/labstockhq/labstock-backend/internal/inventory"
	"github.com/labstockhq/labstock-backend/internal/stock"
	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
)

const recentTransactionCount = 10

type itemLister interface {
	ListAll(ctx context.Context, filter inventory.ListFilter) ([]models.InventoryItem, error)
}

type levelSummer interface {
	SumByItem(ctx context.Context) ([]stock.ItemQuantity, error)
}

type thresholdLister interface {
	ListThresholds(ctx context.Context) ([]models.CategoryThreshold, error)
}

type transactionLister interface {
	ListRecent(ctx context.Context, limit int) ([]models.StockTransaction, error)
}

// LowStockItem is one catalog entry currently under its effective threshold.
type LowStockItem struct {
	Item      models.InventoryItem `json:"item"`
	Quantity  decimal.Decimal      `json:"quantity"`
	Threshold decimal.Decimal      `json:"threshold"`
}

// Overview is the dashboard aggregate.
type Overview struct {
	TotalItems         int                      `json:"total_items"`
	TotalValue         decimal.Decimal          `json:"total_value"`
	LowStock           []LowStockItem           `json:"low_stock"`
	ExpiringSoon       []models.InventoryItem   `json:"expiring_soon"`
	RecentTransactions []models.StockTransaction `json:"recent_transactions"`
}

// Service computes dashboard aggregates over the catalog and stock state.
type Service interface {
	Overview(ctx context.Context, expiryWindowDays int) (*Overview, error)
	LowStock(ctx context.Context) ([]LowStockItem, error)
}

type service struct {
	items      itemLister
	levels     levelSummer
	thresholds thresholdLister
	txns       transactionLister
}

// NewService builds a summary service.
func NewService(items itemLister, levels levelSummer, thresholds thresholdLister, txns transactionLister) (Service, error) {
	if items == nil {
		return nil, fmt.Errorf("item lister required")
	}
	if levels == nil {
		return nil, fmt.Errorf("level summer required")
	}
	if thresholds == nil {
		return nil, fmt.Errorf("threshold lister required")
	}
	if txns == nil {
		return nil, fmt.Errorf("transaction lister required")
	}
	return &service{items: items, levels: levels, thresholds: thresholds, txns: txns}, nil
}

// Overview loads the full dashboard aggregate in one call.
func (s *service) Overview(ctx context.Context, expiryWindowDays int) (*Overview, error) {
	items, err := s.items.ListAll(ctx, inventory.ListFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load items")
	}

	low, err := s.lowStock(ctx, items)
	if err != nil {
		return nil, err
	}

	txns, err := s.txns.ListRecent(ctx, recentTransactionCount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load recent transactions")
	}

	total := decimal.Zero
	for _, item := range items {
		if v := item.TotalValue(); v != nil {
			total = total.Add(*v)
		}
	}

	return &Overview{
		TotalItems:         len(items),
		TotalValue:         total,
		LowStock:           low,
		ExpiringSoon:       expiringSoon(items, time.Now().UTC(), expiryWindowDays),
		RecentTransactions: txns,
	}, nil
}

// LowStock returns every item under its effective threshold.
func (s *service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	items, err := s.items.ListAll(ctx, inventory.ListFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load items")
	}
	return s.lowStock(ctx, items)
}

// lowStock flags items whose on-hand quantity sits below the item threshold,
// falling back to the per-category default when the item has none. Items with
// neither a usable quantity nor a threshold are never flagged.
func (s *service) lowStock(ctx context.Context, items []models.InventoryItem) ([]LowStockItem, error) {
	sums, err := s.levels.SumByItem(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load stock levels")
	}
	quantities := make(map[string]decimal.Decimal, len(sums))
	for _, sum := range sums {
		quantities[sum.ItemID.String()] = sum.Quantity
	}

	thresholds, err := s.thresholds.ListThresholds(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load thresholds")
	}
	defaults := make(map[string]*decimal.Decimal, len(thresholds))
	for _, t := range thresholds {
		defaults[thresholdKey(t.Category)] = t.DefaultThreshold
	}

	low := make([]LowStockItem, 0)
	for _, item := range items {
		threshold := item.LowStockThreshold
		if threshold == nil && item.Category != nil {
			threshold = defaults[thresholdKey(*item.Category)]
		}
		if threshold == nil {
			continue
		}

		quantity, ok := quantities[item.ID.String()]
		if !ok {
			// no movement recorded yet, fall back to the catalog count
			if item.Units == nil {
				continue
			}
			quantity = *item.Units
		}

		if quantity.LessThan(*threshold) {
			low = append(low, LowStockItem{Item: item, Quantity: quantity, Threshold: *threshold})
		}
	}
	return low, nil
}

func thresholdKey(category string) string {
	return strings.ToLower(strings.Join(strings.Fields(category), " "))
}

// expiringSoon keeps items whose expiration date falls on or before the
// cutoff, already-expired included.
func expiringSoon(items []models.InventoryItem, now time.Time, windowDays int) []models.InventoryItem {
	if windowDays <= 0 {
		windowDays = 30
	}
	cutoff := now.AddDate(0, 0, windowDays)

	soon := make([]models.InventoryItem, 0)
	for _, item := range items {
		if item.ExpirationDate == nil {
			continue
		}
		expires, err := time.Parse("2006-01-02", *item.ExpirationDate)
		if err != nil {
			continue
		}
		if !expires.After(cutoff) {
			soon = append(soon, item)
		}
	}
	return soon
}
