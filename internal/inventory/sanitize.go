package inventory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/labstockhq/labstock-backend/pkg/enums"
)

// ItemUpsert is the strict insert payload a loosely-typed row sanitizes into.
// Nil means "unspecified", which is deliberately distinct from zero.
type ItemUpsert struct {
	Name              string           `json:"name"`
	Category          *string          `json:"category"`
	Units             *decimal.Decimal `json:"units"`
	UnitType          *enums.UnitType  `json:"unit_type"`
	PricePerUnit      *decimal.Decimal `json:"price_per_unit"`
	Location          *string          `json:"location"`
	DateAdded         *string          `json:"date_added"`
	Notes             *string          `json:"notes"`
	ExpirationDate    *string          `json:"expiration_date"`
	BatchLot          *string          `json:"batch_lot"`
	OpenedAt          *string          `json:"opened_at"`
	MSDSURL           *string          `json:"msds_url"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"`
	SKU               *string          `json:"sku"`
}

var (
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Sanitize converts an untyped key-value row into a strict item payload. It
// is total: no input shape makes it fail, and running it over its own output
// yields the same result. Display-only columns (total_value, qty_on_hand) are
// always stripped, even when present in the input. Values that cannot be
// coerced are dropped to nil and reported in the returned warning list.
func Sanitize(input map[string]any) (ItemUpsert, []string) {
	var warnings []string

	if input == nil {
		input = map[string]any{}
	}

	num := func(field string) *decimal.Decimal {
		v, ok := input[field]
		if !ok {
			return nil
		}
		d, warn := coerceNumber(field, v)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		return d
	}
	str := func(field string) *string {
		return coerceString(input[field])
	}
	date := func(field string) *string {
		d, warn := coerceDate(field, input[field])
		if warn != "" {
			warnings = append(warnings, warn)
		}
		return d
	}

	price := num("price_per_unit")
	if price == nil {
		// legacy sheets used unit_cost for the price column
		if legacy, warn := coerceNumber("unit_cost", input["unit_cost"]); warn == "" {
			price = legacy
		}
	}

	var unitType *enums.UnitType
	if raw := coerceString(input["unit_type"]); raw != nil {
		if parsed, err := enums.ParseUnitType(strings.ToLower(strings.TrimSpace(*raw))); err == nil {
			unitType = &parsed
		} else {
			warnings = append(warnings, fmt.Sprintf("unit_type: %v", err))
		}
	}

	out := ItemUpsert{
		Name:              strings.TrimSpace(fmt.Sprint(valueOr(input["name"], ""))),
		Category:          str("category"),
		Units:             num("units"),
		UnitType:          unitType,
		PricePerUnit:      price,
		Location:          str("location"),
		DateAdded:         date("date_added"),
		Notes:             str("notes"),
		ExpirationDate:    date("expiration_date"),
		BatchLot:          str("batch_lot"),
		OpenedAt:          date("opened_at"),
		MSDSURL:           str("msds_url"),
		LowStockThreshold: num("low_stock_threshold"),
		SKU:               str("sku"),
	}

	return out, warnings
}

// AsInput rebuilds the untyped row shape, letting callers re-run Sanitize
// over an already-sanitized payload.
func (u ItemUpsert) AsInput() map[string]any {
	input := map[string]any{"name": u.Name}
	putStr := func(field string, v *string) {
		if v != nil {
			input[field] = *v
		}
	}
	putNum := func(field string, v *decimal.Decimal) {
		if v != nil {
			input[field] = v.String()
		}
	}
	putStr("category", u.Category)
	putNum("units", u.Units)
	if u.UnitType != nil {
		input["unit_type"] = u.UnitType.String()
	}
	putNum("price_per_unit", u.PricePerUnit)
	putStr("location", u.Location)
	putStr("date_added", u.DateAdded)
	putStr("notes", u.Notes)
	putStr("expiration_date", u.ExpirationDate)
	putStr("batch_lot", u.BatchLot)
	putStr("opened_at", u.OpenedAt)
	putStr("msds_url", u.MSDSURL)
	putNum("low_stock_threshold", u.LowStockThreshold)
	putStr("sku", u.SKU)
	return input
}

func valueOr(v any, fallback any) any {
	if v == nil {
		return fallback
	}
	return v
}

func coerceString(v any) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return nil
	}
	return &s
}

func coerceNumber(field string, v any) (*decimal.Decimal, string) {
	switch typed := v.(type) {
	case nil:
		return nil, ""
	case decimal.Decimal:
		return &typed, ""
	case *decimal.Decimal:
		return typed, ""
	case float64:
		d := decimal.NewFromFloat(typed)
		return &d, ""
	case int:
		d := decimal.NewFromInt(int64(typed))
		return &d, ""
	case int64:
		d := decimal.NewFromInt(typed)
		return &d, ""
	}

	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		// blank means unspecified, never zero
		return nil, ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Sprintf("%s: %q is not a number", field, s)
	}
	return &d, ""
}

// coerceDate normalizes dd/mm/yyyy or yyyy-mm-dd input to ISO.
func coerceDate(field string, v any) (*string, string) {
	raw := coerceString(v)
	if raw == nil {
		return nil, ""
	}
	s := *raw
	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		iso := fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
		return &iso, ""
	}
	if isoDateRe.MatchString(s) {
		return &s, ""
	}
	return nil, fmt.Sprintf("%s: %q is not a recognized date", field, s)
}
