// =============================================================================
// Vendor Matcher - XLSX Loader
// =============================================================================
//
// This module loads a vendor table from an Excel workbook. Finance teams
// often hand over ledgers as .xlsx rather than CSV; the loader produces the
// same types.Table the CSV loader does, so everything downstream is
// format-agnostic.
//
// WORKBOOK LAYOUT:
//
//   | Vendor            | Amount  | Date       |   <- header row (configurable)
//   |-------------------|---------|------------|
//   | Acme Inc          | 100     | 2024-01-02 |
//   | Acme Incorporated | 50.25   | 2024-01-03 |
//
// Cell values are read raw (unformatted), so a currency-formatted amount
// cell yields "50.25" rather than "$50.25".
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/vendor-matching/internal/config"
	"github.com/ginjaninja78/vendor-matching/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the vendor table from a workbook on disk.
//
// PARAMETERS:
//   - filePath: The path to the .xlsx file.
//   - settings: Sheet and header row selection.
//
// RETURNS:
//   - The parsed table. Table.Source is set to filePath.
//   - An error if the workbook cannot be opened or the sheet is missing.
func Parse(filePath string, settings config.XLSXSettings) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return ParseWorkbook(f, filePath, settings)
}

// ParseReader reads the vendor table from workbook bytes in r.
func ParseReader(r io.Reader, source string, settings config.XLSXSettings) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return ParseWorkbook(f, source, settings)
}

// ParseWorkbook reads the configured sheet of an open workbook.
func ParseWorkbook(f *excelize.File, source string, settings config.XLSXSettings) (*types.Table, error) {
	sheetName, err := resolveSheet(f, settings.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	headerRow := settings.HeaderRow
	if headerRow <= 0 {
		headerRow = 1
	}

	table := &types.Table{Source: source, Rows: []types.Row{}}
	if len(rows) < headerRow {
		return table, nil
	}

	table.Headers = cleanHeaders(rows[headerRow-1])

	for i := headerRow; i < len(rows); i++ {
		row := rows[i]

		// GetRows trims trailing empty cells, so short rows are normal.
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(types.Row, len(table.Headers))
		for col, header := range table.Headers {
			if col < len(row) {
				rowMap[header] = strings.TrimSpace(row[col])
			} else {
				rowMap[header] = ""
			}
		}
		table.Rows = append(table.Rows, rowMap)
	}

	return table, nil
}

// resolveSheet returns the named sheet, or the first sheet when name is empty.
func resolveSheet(f *excelize.File, name string) (string, error) {
	if name == "" {
		first := f.GetSheetName(0)
		if first == "" {
			return "", fmt.Errorf("workbook has no sheets")
		}
		return first, nil
	}

	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return "", fmt.Errorf("invalid sheet name %q: %w", name, err)
	}
	if idx < 0 {
		return "", fmt.Errorf("sheet %q not found (available: %s)", name, strings.Join(f.GetSheetList(), ", "))
	}
	return name, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cleanHeaders trims headers and names blank columns "Column_N".
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
