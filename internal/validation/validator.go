// =============================================================================
// Vendor Matcher - Table Validation
// =============================================================================
//
// This module checks a loaded table before matching. Matching itself never
// fails on messy data (blank vendors are skipped, unreadable amounts count
// as zero), so these checks exist to tell the operator what was skipped.
//
// SEVERITIES:
//   - "error"   : the file cannot be matched (vendor column missing)
//   - "warning" : the row is used partially or not at all
//
// ROW NUMBERS:
//   Row is the 1-based position among data rows, after header and blank
//   rows have been dropped by the loader.
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/vendor-matching/internal/aggregator"
	"github.com/ginjaninja78/vendor-matching/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names.
const (
	RuleMissingColumn = "missing_column"
	RuleBlankVendor   = "blank_vendor"
	RuleBadAmount     = "bad_amount"
)

// =============================================================================
// VALIDATION ISSUE TYPES
// =============================================================================

// Issue is a single validation finding.
type Issue struct {
	Severity string `json:"severity" yaml:"severity"`
	Rule     string `json:"rule" yaml:"rule"`
	Row      int    `json:"row,omitempty" yaml:"row,omitempty"`
	Field    string `json:"field" yaml:"field"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	Message  string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (i *Issue) Error() string {
	if i.Row == 0 {
		return fmt.Sprintf("[%s] Field '%s': %s", strings.ToUpper(i.Severity), i.Field, i.Message)
	}
	return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(i.Severity),
		i.Row,
		i.Field,
		i.Message,
		i.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the results of validation.
type Result struct {
	// IsValid is true if there are no error-severity issues.
	IsValid bool

	// Issues lists every finding in row order.
	Issues []*Issue

	ErrorCount   int
	WarningCount int

	// RowsValidated is the number of data rows inspected.
	RowsValidated int
}

func (r *Result) add(issue *Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidateTable checks the vendor and amount columns of table.
//
// PARAMETERS:
//   - table: The loaded rows.
//   - vendorColumn: Header of the vendor name column.
//   - amountColumn: Header of the amount column; "" skips amount checks.
//
// RETURNS:
//   - The validation result. A nil table yields a valid, empty result.
func ValidateTable(table *types.Table, vendorColumn, amountColumn string) *Result {
	result := &Result{IsValid: true}
	if table == nil || len(table.Rows) == 0 {
		return result
	}

	if !table.HasColumn(vendorColumn) {
		result.add(&Issue{
			Severity: SeverityError,
			Rule:     RuleMissingColumn,
			Field:    vendorColumn,
			Message:  fmt.Sprintf("vendor column not found (columns: %s)", strings.Join(table.Headers, ", ")),
		})
		return result
	}

	checkAmounts := amountColumn != "" && table.HasColumn(amountColumn)
	if amountColumn != "" && !checkAmounts {
		result.add(&Issue{
			Severity: SeverityWarning,
			Rule:     RuleMissingColumn,
			Field:    amountColumn,
			Message:  "amount column not found; totals will be N/A",
		})
	}

	for i, row := range table.Rows {
		result.RowsValidated++
		rowNum := i + 1

		if strings.TrimSpace(row[vendorColumn]) == "" {
			result.add(&Issue{
				Severity: SeverityWarning,
				Rule:     RuleBlankVendor,
				Row:      rowNum,
				Field:    vendorColumn,
				Message:  "blank vendor name; row skipped",
			})
			continue
		}

		if !checkAmounts {
			continue
		}
		cell := row[amountColumn]
		if strings.TrimSpace(cell) == "" {
			continue
		}
		if _, ok := aggregator.ParseAmount(cell); !ok {
			result.add(&Issue{
				Severity: SeverityWarning,
				Rule:     RuleBadAmount,
				Row:      rowNum,
				Field:    amountColumn,
				Value:    cell,
				Message:  "amount is not a number; counted as zero",
			})
		}
	}

	return result
}

// =============================================================================
// REPORTING
// =============================================================================

// FormatIssues formats issues for display or logging.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No validation issues."
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Validation completed with %d issue(s):\n\n", len(issues))
	for i, issue := range issues {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, issue.Error())
	}

	return builder.String()
}

// WriteIssueLog writes issues to a plain-text log file.
//
// PARAMETERS:
//   - issues: The issues to write.
//   - filePath: The path to the output file.
//
// RETURNS:
//   - An error if writing fails.
func WriteIssueLog(issues []*Issue, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create issue log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(FormatIssues(issues)); err != nil {
		return fmt.Errorf("failed to write issue log: %w", err)
	}
	return writer.Flush()
}
