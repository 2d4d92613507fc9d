package summary

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/labstockhq/labstock-backend/internal/inventory"
	"github.com/labstockhq/labstock-backend/internal/stock"
	"github.com/labstockhq/labstock-backend/pkg/db/models"
)

type stubItems struct{ items []models.InventoryItem }

func (s stubItems) ListAll(ctx context.Context, filter inventory.ListFilter) ([]models.InventoryItem, error) {
	return s.items, nil
}

type stubLevels struct{ sums []stock.ItemQuantity }

func (s stubLevels) SumByItem(ctx context.Context) ([]stock.ItemQuantity, error) {
	return s.sums, nil
}

type stubThresholds struct{ thresholds []models.CategoryThreshold }

func (s stubThresholds) ListThresholds(ctx context.Context) ([]models.CategoryThreshold, error) {
	return s.thresholds, nil
}

type stubTxns struct{ txns []models.StockTransaction }

func (s stubTxns) ListRecent(ctx context.Context, limit int) ([]models.StockTransaction, error) {
	return s.txns, nil
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func str(s string) *string { return &s }

func TestLowStockUsesItemThresholdFirst(t *testing.T) {
	t.Parallel()

	item := models.InventoryItem{
		ID:                uuid.New(),
		Name:              "Acetone",
		Category:          str("Chemicals"),
		LowStockThreshold: dec("10"),
	}
	svc, err := NewService(
		stubItems{items: []models.InventoryItem{item}},
		stubLevels{sums: []stock.ItemQuantity{{ItemID: item.ID, Quantity: decimal.NewFromInt(4)}}},
		stubThresholds{thresholds: []models.CategoryThreshold{{Category: "Chemicals", DefaultThreshold: dec("1")}}},
		stubTxns{},
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	low, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(low) != 1 {
		t.Fatalf("expected 1 low item, got %d", len(low))
	}
	if !low[0].Threshold.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("item threshold must win over the category default, got %s", low[0].Threshold)
	}
}

func TestLowStockFallsBackToCategoryDefault(t *testing.T) {
	t.Parallel()

	item := models.InventoryItem{
		ID:       uuid.New(),
		Name:     "Ethanol",
		Category: str("Chemicals"),
		Units:    dec("2"),
	}
	svc, _ := NewService(
		stubItems{items: []models.InventoryItem{item}},
		stubLevels{},
		stubThresholds{thresholds: []models.CategoryThreshold{{Category: "chemicals", DefaultThreshold: dec("5")}}},
		stubTxns{},
	)

	low, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(low) != 1 {
		t.Fatalf("expected category fallback to flag the item, got %d", len(low))
	}
	if !low[0].Quantity.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("quantity should fall back to catalog units, got %s", low[0].Quantity)
	}
}

func TestLowStockSkipsItemsWithoutThreshold(t *testing.T) {
	t.Parallel()

	item := models.InventoryItem{ID: uuid.New(), Name: "Stand", Units: dec("0")}
	svc, _ := NewService(
		stubItems{items: []models.InventoryItem{item}},
		stubLevels{},
		stubThresholds{},
		stubTxns{},
	)

	low, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(low) != 0 {
		t.Fatalf("item with no threshold must never be flagged, got %d", len(low))
	}
}

func TestLowStockNullCategoryDefaultDisablesRule(t *testing.T) {
	t.Parallel()

	item := models.InventoryItem{
		ID:       uuid.New(),
		Name:     "Gloves",
		Category: str("Consumables"),
		Units:    dec("0"),
	}
	svc, _ := NewService(
		stubItems{items: []models.InventoryItem{item}},
		stubLevels{},
		stubThresholds{thresholds: []models.CategoryThreshold{{Category: "Consumables", DefaultThreshold: nil}}},
		stubTxns{},
	)

	low, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(low) != 0 {
		t.Fatalf("null category threshold must disable the rule, got %d", len(low))
	}
}

func TestOverviewAggregates(t *testing.T) {
	t.Parallel()

	soonDate := time.Now().UTC().AddDate(0, 0, 5).Format("2006-01-02")
	farDate := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")
	items := []models.InventoryItem{
		{ID: uuid.New(), Name: "Acetone", Units: dec("10"), PricePerUnit: dec("2"), ExpirationDate: &soonDate},
		{ID: uuid.New(), Name: "Beaker", Units: dec("3"), ExpirationDate: &farDate},
	}
	svc, _ := NewService(
		stubItems{items: items},
		stubLevels{},
		stubThresholds{},
		stubTxns{txns: []models.StockTransaction{{ID: uuid.New()}}},
	)

	overview, err := svc.Overview(context.Background(), 7)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.TotalItems != 2 {
		t.Fatalf("expected 2 items, got %d", overview.TotalItems)
	}
	if !overview.TotalValue.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("items without a price must not contribute, got %s", overview.TotalValue)
	}
	if len(overview.ExpiringSoon) != 1 {
		t.Fatalf("expected 1 expiring item, got %d", len(overview.ExpiringSoon))
	}
	if len(overview.RecentTransactions) != 1 {
		t.Fatalf("expected recent transactions, got %d", len(overview.RecentTransactions))
	}
}
