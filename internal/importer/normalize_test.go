package importer

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
)

func testLookups() (*NameLookup, *NameLookup) {
	cats := CategoryLookup([]models.Category{
		{ID: uuid.New(), Name: "Chemicals"},
		{ID: uuid.New(), Name: "Glassware"},
	})
	locs := LocationLookup([]models.Location{
		{ID: uuid.New(), Name: "Cold Room"},
	})
	return cats, locs
}

func TestNormalizeEmptyNameExcludedWithRowNumber(t *testing.T) {
	t.Parallel()

	cats, locs := testLookups()
	rows := []Row{
		{"name": "Acetone", "category": "Chemicals"},
		{"name": "   ", "category": "Chemicals"},
		{"name": "Beaker", "category": "Glassware"},
	}

	result := Normalize(rows, cats, locs)
	if len(result.Payloads) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(result.Payloads))
	}
	if len(result.Problems) != 1 {
		t.Fatalf("expected 1 problem, got %v", result.Problems)
	}
	// header occupies sheet row 1, so index 1 displays as row 3
	if !strings.Contains(result.Problems[0], "row 3") {
		t.Fatalf("problem should reference display row 3: %q", result.Problems[0])
	}
}

func TestNormalizeCategoryResolvesCaseInsensitively(t *testing.T) {
	t.Parallel()

	cats, locs := testLookups()
	rows := []Row{
		{"name": "Acetone", "category": "  chemicals "},
		{"name": "Ethanol", "category": "CHEMICALS"},
	}

	result := Normalize(rows, cats, locs)
	if len(result.Problems) != 0 {
		t.Fatalf("unexpected problems: %v", result.Problems)
	}
	for _, payload := range result.Payloads {
		if payload.Category == nil || *payload.Category != "Chemicals" {
			t.Fatalf("expected canonical category, got %v", payload.Category)
		}
	}

	idA, _, okA := cats.Resolve("chemicals ")
	idB, _, okB := cats.Resolve("Chemicals")
	if !okA || !okB || idA != idB {
		t.Fatal("case variants must resolve to the same category")
	}
}

func TestNormalizeUnknownCategoryKeepsRowWithWarning(t *testing.T) {
	t.Parallel()

	cats, locs := testLookups()
	rows := []Row{{"name": "Mystery", "category": "Radioactives", "location": "Basement"}}

	result := Normalize(rows, cats, locs)
	if len(result.Payloads) != 1 {
		t.Fatalf("row with unknown references must stay, got %d payloads", len(result.Payloads))
	}
	payload := result.Payloads[0]
	if payload.Category != nil || payload.Location != nil {
		t.Fatalf("unresolved references must be null, got %v / %v", payload.Category, payload.Location)
	}
	if len(result.Problems) != 2 {
		t.Fatalf("expected warnings for category and location, got %v", result.Problems)
	}
}

func TestNormalizeStripsTotalValueColumn(t *testing.T) {
	t.Parallel()

	cats, locs := testLookups()
	rows := []Row{{"name": "Acetone", "total_value": "120", "units": "", "price_per_unit": "3"}}

	result := Normalize(rows, cats, locs)
	if len(result.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(result.Payloads))
	}
	payload := result.Payloads[0]
	if payload.Units != nil {
		t.Fatalf("blank units must be null, got %v", payload.Units)
	}
	if _, ok := payload.AsInput()["total_value"]; ok {
		t.Fatal("total_value must never survive normalization")
	}
}
