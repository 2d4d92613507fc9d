package importer

import (
	"fmt"

	"github.com/labstockhq/labstock-backend/internal/inventory"
)

// NormalizeResult is the outcome of normalizing one parsed sheet: the
// insertable payloads plus every human-readable per-row problem. Bad rows
// never abort the batch.
type NormalizeResult struct {
	Payloads []inventory.ItemUpsert
	Problems []string
}

// Normalize turns parsed rows into strict insert payloads. Display rows are
// numbered from 2 to account for the header row. A row without a name is
// excluded and reported; an unresolved category or location keeps the row but
// nulls the reference and records a warning.
func Normalize(rows []Row, categories, locations *NameLookup) NormalizeResult {
	result := NormalizeResult{
		Payloads: make([]inventory.ItemUpsert, 0, len(rows)),
	}

	for idx, row := range rows {
		displayRow := idx + 2

		input := make(map[string]any, len(row))
		for key, value := range row {
			input[key] = value
		}

		upsert, warnings := inventory.Sanitize(input)
		if upsert.Name == "" {
			result.Problems = append(result.Problems, fmt.Sprintf("row %d: name is required", displayRow))
			continue
		}
		for _, warn := range warnings {
			result.Problems = append(result.Problems, fmt.Sprintf("row %d: %s", displayRow, warn))
		}

		if upsert.Category != nil {
			if _, canonical, ok := categories.Resolve(*upsert.Category); ok {
				upsert.Category = &canonical
			} else {
				result.Problems = append(result.Problems,
					fmt.Sprintf("row %d: unknown category %q, imported without one", displayRow, *upsert.Category))
				upsert.Category = nil
			}
		}
		if upsert.Location != nil {
			if _, canonical, ok := locations.Resolve(*upsert.Location); ok {
				upsert.Location = &canonical
			} else {
				result.Problems = append(result.Problems,
					fmt.Sprintf("row %d: unknown location %q, imported without one", displayRow, *upsert.Location))
				upsert.Location = nil
			}
		}

		result.Payloads = append(result.Payloads, upsert)
	}
	return result
}
