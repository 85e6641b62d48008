package report

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/vendor-matching/internal/types"
)

// =============================================================================
// MSGPACK
// =============================================================================

type msgpackReport struct {
	Matches orderedMatches  `msgpack:"matches"`
	Summary []msgpackRecord `msgpack:"summary"`
	Stats   types.Stats     `msgpack:"stats"`
}

// msgpackRecord carries TotalAmount as float64 or the "N/A" string.
type msgpackRecord struct {
	PrimaryName  string `msgpack:"Primary Name"`
	MatchedNames string `msgpack:"Matched Names"`
	Variations   int    `msgpack:"Variations"`
	TotalAmount  any    `msgpack:"Total Amount"`
}

// EncodeMsgpack implements msgpack.CustomEncoder. Pairs are written in group
// order; SetSortMapKeys only applies to Go maps.
func (m orderedMatches) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(m)); err != nil {
		return err
	}
	for _, g := range m {
		if err := enc.EncodeString(g.Primary); err != nil {
			return err
		}
		if err := enc.Encode(g.Members); err != nil {
			return err
		}
	}
	return nil
}

func writeMsgpack(w io.Writer, res types.Result) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)

	if res.Failed() {
		return enc.Encode(errorEnvelope{Error: res.Error})
	}

	r := res.Report
	out := msgpackReport{
		Matches: orderedMatches(r.Matches.Groups),
		Summary: make([]msgpackRecord, 0, len(r.Summary)),
		Stats:   r.Stats,
	}
	for _, rec := range r.Summary {
		out.Summary = append(out.Summary, msgpackRecord{
			PrimaryName:  rec.PrimaryName,
			MatchedNames: rec.MatchedNames,
			Variations:   rec.Variations,
			TotalAmount:  rec.TotalAmount.Interface(),
		})
	}
	return enc.Encode(out)
}

// =============================================================================
// XLSX
// =============================================================================

const (
	summarySheet = "Summary"
	matchesSheet = "Matches"
	statsSheet   = "Stats"
	errorSheet   = "Error"

	// Built-in number format "#,##0.00".
	numFmtThousandsTwoDecimals = 4
)

func writeXLSX(w io.Writer, res types.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := buildWorkbook(f, res); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

// buildWorkbook fills f. The default sheet is renamed rather than deleted so
// the workbook always has an active sheet.
func buildWorkbook(f *excelize.File, res types.Result) error {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	first := f.GetSheetName(0)

	if res.Failed() {
		if err := f.SetSheetName(first, errorSheet); err != nil {
			return err
		}
		if err := writeSheetRows(f, errorSheet, header, []any{"error"}, []any{res.Error}); err != nil {
			return err
		}
		return f.SetColWidth(errorSheet, "A", "A", 80)
	}

	r := res.Report

	// Summary
	if err := f.SetSheetName(first, summarySheet); err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtThousandsTwoDecimals})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}
	rows := make([][]any, 0, len(r.Summary))
	for _, rec := range r.Summary {
		var total any = types.NotAvailable
		if rec.TotalAmount.Valid {
			total = rec.TotalAmount.Value.InexactFloat64()
		}
		rows = append(rows, []any{rec.PrimaryName, rec.MatchedNames, rec.Variations, total})
	}
	if err := writeSheetRows(f, summarySheet, header, toAny(SummaryColumns), rows...); err != nil {
		return err
	}
	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(4, len(rows)+1)
		if err := f.SetCellStyle(summarySheet, "D2", last, money); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "C", "D", 16); err != nil {
		return err
	}

	// Matches: one row per member.
	if _, err := f.NewSheet(matchesSheet); err != nil {
		return err
	}
	var memberRows [][]any
	for _, g := range r.Matches.Groups {
		for _, m := range g.Members {
			memberRows = append(memberRows, []any{g.Primary, m})
		}
	}
	if err := writeSheetRows(f, matchesSheet, header, []any{"Primary Name", "Member"}, memberRows...); err != nil {
		return err
	}
	if err := f.SetColWidth(matchesSheet, "A", "B", 40); err != nil {
		return err
	}

	// Stats
	if _, err := f.NewSheet(statsSheet); err != nil {
		return err
	}
	s := r.Stats
	return writeSheetRows(f, statsSheet, header, []any{"Metric", "Value"},
		[]any{"total_unique_vendors", s.TotalUniqueVendors},
		[]any{"matched_groups", s.MatchedGroups},
		[]any{"total_matched_vendors", s.TotalMatchedVendors},
		[]any{"unmatched_vendors", s.UnmatchedVendors},
	)
}

// writeSheetRows writes a bold header row followed by rows.
func writeSheetRows(f *excelize.File, sheet string, headerStyle int, header []any, rows ...[]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	end, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
