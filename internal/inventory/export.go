package inventory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
)

// ExportFormat selects the spreadsheet encoding for catalog exports.
type ExportFormat string

const (
	// ExportCSV writes a UTF-8 comma-separated file.
	ExportCSV ExportFormat = "csv"
	// ExportXLSX writes an Excel workbook with a single sheet.
	ExportXLSX ExportFormat = "xlsx"
)

var exportHeader = []string{
	"name", "category", "units", "unit_type", "price_per_unit", "total_value",
	"location", "date_added", "expiration_date", "batch_lot", "opened_at",
	"msds_url", "low_stock_threshold", "sku", "notes",
}

// ParseExportFormat validates the requested format, defaulting to CSV.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch raw {
	case "", string(ExportCSV):
		return ExportCSV, nil
	case string(ExportXLSX):
		return ExportXLSX, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}

// ContentType returns the MIME type to serve the export under.
func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns the download name for the export.
func (f ExportFormat) Filename() string {
	return "inventory." + string(f)
}

// Exporter streams the catalog as a spreadsheet.
type Exporter struct {
	repo ItemRepository
}

// NewExporter builds a catalog exporter.
func NewExporter(repo ItemRepository) (*Exporter, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &Exporter{repo: repo}, nil
}

// Export writes the full catalog to w in the requested format.
func (e *Exporter) Export(ctx context.Context, w io.Writer, format ExportFormat) error {
	items, err := e.repo.ListAll(ctx, ListFilter{})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load items for export")
	}
	if format == ExportXLSX {
		return writeXLSX(w, items)
	}
	return writeCSV(w, items)
}

func exportRow(item models.InventoryItem) []string {
	str := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}
	num := func(v interface{ String() string }) string {
		return v.String()
	}
	row := make([]string, 0, len(exportHeader))
	row = append(row, item.Name, str(item.Category))
	if item.Units != nil {
		row = append(row, num(item.Units))
	} else {
		row = append(row, "")
	}
	if item.UnitType != nil {
		row = append(row, item.UnitType.String())
	} else {
		row = append(row, "")
	}
	if item.PricePerUnit != nil {
		row = append(row, num(item.PricePerUnit))
	} else {
		row = append(row, "")
	}
	if total := item.TotalValue(); total != nil {
		row = append(row, total.String())
	} else {
		row = append(row, "")
	}
	row = append(row,
		str(item.Location), str(item.DateAdded), str(item.ExpirationDate),
		str(item.BatchLot), str(item.OpenedAt), str(item.MSDSURL),
	)
	if item.LowStockThreshold != nil {
		row = append(row, num(item.LowStockThreshold))
	} else {
		row = append(row, "")
	}
	row = append(row, str(item.SKU), str(item.Notes))
	return row
}

func writeCSV(w io.Writer, items []models.InventoryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write export header")
	}
	for _, item := range items {
		if err := cw.Write(exportRow(item)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write export row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to flush export")
	}
	return nil
}

func writeXLSX(w io.Writer, items []models.InventoryItem) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventory"
	f.SetSheetName("Sheet1", sheet)

	writeRow := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		converted := make([]any, len(values))
		for i, v := range values {
			converted[i] = v
		}
		return f.SetSheetRow(sheet, cell, &converted)
	}

	if err := writeRow(1, exportHeader); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write export header")
	}
	for i, item := range items {
		if err := writeRow(i+2, exportRow(item)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write export row")
		}
	}
	if err := f.Write(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write workbook")
	}
	return nil
}
