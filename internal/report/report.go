// =============================================================================
// Vendor Matcher - Report Writers
// =============================================================================
//
// This module serializes a types.Result. Every format carries the same
// envelope:
//
//   success: { matches, summary, stats }
//   failure: { error }
//
// FORMATS:
//   - json    : matches keep discovery order; amounts are bare numbers
//   - yaml    : same shape as json
//   - xml     : <vendorMatchReport> with group/record elements
//   - csv     : the summary table only (Primary Name, Matched Names, ...)
//   - msgpack : compact binary for downstream services
//   - xlsx    : Summary, Matches and Stats sheets
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/vendor-matching/internal/types"
)

// Supported formats.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatXML     = "xml"
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatMsgpack = "msgpack"
)

// SummaryColumns are the headers of the tabular summary (csv, xlsx).
var SummaryColumns = []string{"Primary Name", "Matched Names", "Variations", "Total Amount"}

type writerFunc func(w io.Writer, res types.Result) error

var writers = map[string]writerFunc{
	FormatJSON:    writeJSON,
	FormatYAML:    writeYAML,
	FormatXML:     writeXML,
	FormatCSV:     writeCSV,
	FormatXLSX:    writeXLSX,
	FormatMsgpack: writeMsgpack,
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatXML, FormatCSV, FormatXLSX, FormatMsgpack}
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) (string, error) {
	format = strings.ToLower(format)
	if _, ok := writers[format]; !ok {
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
	return "." + format, nil
}

// Write serializes res to w in the given format.
func Write(w io.Writer, res types.Result, format string) error {
	write, ok := writers[strings.ToLower(format)]
	if !ok {
		return fmt.Errorf("unsupported output format: %s", format)
	}
	if !res.Failed() && res.Report == nil {
		return fmt.Errorf("result has neither a report nor an error")
	}
	if err := write(w, res); err != nil {
		return fmt.Errorf("failed to write %s report: %w", format, err)
	}
	return nil
}

// WriteFile writes res to path, creating or truncating it.
func WriteFile(path string, res types.Result, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(file, res, format); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// summaryRow renders one record as strings, in SummaryColumns order.
func summaryRow(rec types.SummaryRecord) []string {
	return []string{
		rec.PrimaryName,
		rec.MatchedNames,
		fmt.Sprint(rec.Variations),
		rec.TotalAmount.String(),
	}
}
