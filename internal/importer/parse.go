package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
)

// Row is one loosely-typed spreadsheet row keyed by normalized header name.
// Blank cells are empty strings; no cell value is ever assumed to exist.
type Row map[string]string

// Format identifies the uploaded spreadsheet encoding.
type Format string

const (
	// FormatCSV is a comma-separated file.
	FormatCSV Format = "csv"
	// FormatXLSX is an Excel workbook; only the first sheet is read.
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the parser from the uploaded filename.
func DetectFormat(filename string) (Format, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(lower, ".xlsx"):
		return FormatXLSX, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported file type %q, expected .csv or .xlsx", filename))
	}
}

// Parse reads the file into ordered rows. Ragged rows are tolerated: missing
// trailing cells become empty strings and extra cells are dropped.
func Parse(r io.Reader, format Format) ([]Row, error) {
	if format == FormatXLSX {
		return parseXLSX(r)
	}
	return parseCSV(r)
}

func normalizeHeader(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	return strings.Join(strings.Fields(h), "_")
}

func buildRows(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = normalizeHeader(cell)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(record) {
				row[key] = strings.TrimSpace(record[i])
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func parseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not parse csv file")
	}
	return buildRows(records), nil
}

func parseXLSX(r io.Reader) ([]Row, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "could not read upload")
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not parse xlsx file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read first sheet")
	}
	return buildRows(records), nil
}
