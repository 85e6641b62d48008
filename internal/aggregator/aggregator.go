// =============================================================================
// Vendor Matcher - Aggregator
// =============================================================================
//
// This module turns clustered vendor groups into a reporting-ready summary.
//
// OUTPUT:
//   - One SummaryRecord per group, in the order the clusterer found them:
//       Primary Name | Matched Names (", "-joined) | Variations | Total Amount
//   - Stats over the whole unique vendor set.
//
// AMOUNTS:
//   Total Amount sums the amount column over every row whose (trimmed) vendor
//   is a member of the group, rounded to cents. When the table has no amount
//   column the total is the "N/A" marker, not zero.
//
// ERRORS:
//   An empty table is the only failure. Aggregate returns ErrEmptyInput and
//   Process packages it into Result.Error; neither panics.
//
// =============================================================================

package aggregator

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/vendor-matching/internal/clusterer"
	"github.com/ginjaninja78/vendor-matching/internal/types"
)

// Default column names.
const (
	DefaultVendorColumn = "Vendor"
	DefaultAmountColumn = "Amount"
)

// ErrEmptyInput is returned for a table with no rows.
var ErrEmptyInput = errors.New("input table is empty")

// Options configures Process.
type Options struct {
	VendorColumn string
	AmountColumn string
	Cluster      clusterer.Options
}

// DefaultOptions returns the default columns and clustering options.
func DefaultOptions() Options {
	return Options{
		VendorColumn: DefaultVendorColumn,
		AmountColumn: DefaultAmountColumn,
		Cluster:      clusterer.DefaultOptions(),
	}
}

// =============================================================================
// PIPELINE ENTRY POINT
// =============================================================================

// Process clusters the vendor column of table and aggregates the result.
// Failures are reported through Result.Error.
func Process(table *types.Table, opts Options) types.Result {
	if table == nil || len(table.Rows) == 0 {
		return types.Result{Error: ErrEmptyInput.Error()}
	}

	match := clusterer.Cluster(table.Column(opts.VendorColumn), opts.Cluster)

	report, err := Aggregate(table, match, opts.VendorColumn, opts.AmountColumn)
	if err != nil {
		return types.Result{Error: err.Error()}
	}
	return types.Result{Report: report}
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Aggregate builds summary records and stats for match over table.
//
// PARAMETERS:
//   - table: The rows the match was computed from.
//   - match: The clusterer output.
//   - vendorColumn: Header of the vendor name column.
//   - amountColumn: Header of the amount column. Totals are "N/A" when the
//     table does not declare it.
//
// RETURNS:
//   - The report.
//   - ErrEmptyInput when the table has no rows.
func Aggregate(table *types.Table, match types.MatchResult, vendorColumn, amountColumn string) (*types.Report, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, ErrEmptyInput
	}

	totalUnique := len(clusterer.UniqueNames(table.Column(vendorColumn)))
	hasAmount := amountColumn != "" && table.HasColumn(amountColumn)

	var totals []decimal.Decimal
	if hasAmount {
		totals = sumByGroup(table, match, vendorColumn, amountColumn)
	}

	summary := make([]types.SummaryRecord, 0, len(match.Groups))
	for i, g := range match.Groups {
		total := types.MissingAmount()
		if hasAmount {
			total = types.NewAmount(totals[i])
		}
		summary = append(summary, types.SummaryRecord{
			PrimaryName:  g.Primary,
			MatchedNames: types.JoinMembers(g.Members),
			Variations:   g.Size(),
			TotalAmount:  total,
		})
	}

	matched := match.MatchedCount()
	return &types.Report{
		Matches: match,
		Summary: summary,
		Stats: types.Stats{
			TotalUniqueVendors:  totalUnique,
			MatchedGroups:       len(match.Groups),
			TotalMatchedVendors: matched,
			UnmatchedVendors:    totalUnique - matched,
		},
	}, nil
}

// sumByGroup returns one total per group, indexed like match.Groups.
func sumByGroup(table *types.Table, match types.MatchResult, vendorColumn, amountColumn string) []decimal.Decimal {
	owner := make(map[string]int, match.MatchedCount())
	for i, g := range match.Groups {
		for _, m := range g.Members {
			owner[m] = i
		}
	}

	totals := make([]decimal.Decimal, len(match.Groups))
	for _, row := range table.Rows {
		idx, ok := owner[strings.TrimSpace(row[vendorColumn])]
		if !ok {
			continue
		}
		if amount, ok := ParseAmount(row[amountColumn]); ok {
			totals[idx] = totals[idx].Add(amount)
		}
	}
	return totals
}
