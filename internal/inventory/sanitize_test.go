package inventory

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSanitizeBlankNumericsBecomeNil(t *testing.T) {
	t.Parallel()

	out, warnings := Sanitize(map[string]any{
		"name":                "Acetone",
		"units":               "",
		"price_per_unit":      "   ",
		"low_stock_threshold": "",
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if out.Units != nil {
		t.Fatalf("expected nil units, got %v", out.Units)
	}
	if out.PricePerUnit != nil {
		t.Fatalf("expected nil price, got %v", out.PricePerUnit)
	}
	if out.LowStockThreshold != nil {
		t.Fatalf("expected nil threshold, got %v", out.LowStockThreshold)
	}
}

func TestSanitizeParsesNumbersAndDates(t *testing.T) {
	t.Parallel()

	out, warnings := Sanitize(map[string]any{
		"name":            "  Ethanol 96%  ",
		"units":           "12.5",
		"price_per_unit":  4.2,
		"date_added":      "31/01/2026",
		"expiration_date": "2027-06-30",
		"unit_type":       " Consumable ",
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if out.Name != "Ethanol 96%" {
		t.Fatalf("unexpected name %q", out.Name)
	}
	if out.Units == nil || !out.Units.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected units %v", out.Units)
	}
	if out.DateAdded == nil || *out.DateAdded != "2026-01-31" {
		t.Fatalf("unexpected date_added %v", out.DateAdded)
	}
	if out.ExpirationDate == nil || *out.ExpirationDate != "2027-06-30" {
		t.Fatalf("unexpected expiration_date %v", out.ExpirationDate)
	}
	if out.UnitType == nil || out.UnitType.String() != "consumable" {
		t.Fatalf("unexpected unit_type %v", out.UnitType)
	}
}

func TestSanitizeStripsDerivedColumns(t *testing.T) {
	t.Parallel()

	out, _ := Sanitize(map[string]any{
		"name":        "Beaker",
		"total_value": "99",
		"qty_on_hand": "4",
	})
	rebuilt := out.AsInput()
	if _, ok := rebuilt["total_value"]; ok {
		t.Fatal("total_value survived sanitization")
	}
	if _, ok := rebuilt["qty_on_hand"]; ok {
		t.Fatal("qty_on_hand survived sanitization")
	}
}

func TestSanitizeLegacyUnitCostFeedsPrice(t *testing.T) {
	t.Parallel()

	out, _ := Sanitize(map[string]any{"name": "Flask", "unit_cost": "3.10"})
	if out.PricePerUnit == nil || !out.PricePerUnit.Equal(decimal.RequireFromString("3.10")) {
		t.Fatalf("expected legacy unit_cost to fill price, got %v", out.PricePerUnit)
	}

	out, _ = Sanitize(map[string]any{"name": "Flask", "unit_cost": "3.10", "price_per_unit": "5"})
	if out.PricePerUnit == nil || !out.PricePerUnit.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("expected price_per_unit to win over unit_cost, got %v", out.PricePerUnit)
	}
}

func TestSanitizeUnparseableValuesWarn(t *testing.T) {
	t.Parallel()

	out, warnings := Sanitize(map[string]any{
		"name":       "Pipette",
		"units":      "a dozen",
		"date_added": "sometime",
	})
	if out.Units != nil {
		t.Fatalf("expected nil units, got %v", out.Units)
	}
	if out.DateAdded != nil {
		t.Fatalf("expected nil date, got %v", out.DateAdded)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []map[string]any{
		{"name": "Acetone", "units": "3", "price_per_unit": "", "date_added": "01/02/2026"},
		{"name": "  Tips ", "category": "Plastics", "sku": "TP-100", "unit_type": "consumable"},
		{"name": "Stand", "low_stock_threshold": 2, "notes": "  rusty  "},
		nil,
	}
	for _, input := range inputs {
		once, _ := Sanitize(input)
		twice, _ := Sanitize(once.AsInput())
		if !reflect.DeepEqual(normalize(once), normalize(twice)) {
			t.Fatalf("sanitize not idempotent for %v: %+v vs %+v", input, once, twice)
		}
	}
}

// normalize rewrites decimals to canonical strings so DeepEqual compares
// values rather than internal exponent representation.
func normalize(u ItemUpsert) map[string]any {
	return u.AsInput()
}
