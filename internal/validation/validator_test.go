package validation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/vendor-matching/internal/types"
	"github.com/ginjaninja78/vendor-matching/internal/validation"
)

func TestValidateTableFindsRowIssues(t *testing.T) {
	table := &types.Table{
		Headers: []string{"Vendor", "Amount"},
		Rows: []types.Row{
			{"Vendor": "Acme", "Amount": "10"},
			{"Vendor": "  ", "Amount": "5"},
			{"Vendor": "Globex", "Amount": "ten"},
			{"Vendor": "Initech", "Amount": ""},
		},
	}

	res := validation.ValidateTable(table, "Vendor", "Amount")

	assert.True(t, res.IsValid)
	assert.Equal(t, 4, res.RowsValidated)
	assert.Zero(t, res.ErrorCount)
	assert.Equal(t, 2, res.WarningCount)
	require.Len(t, res.Issues, 2)

	assert.Equal(t, validation.RuleBlankVendor, res.Issues[0].Rule)
	assert.Equal(t, 2, res.Issues[0].Row)
	assert.Equal(t, validation.RuleBadAmount, res.Issues[1].Rule)
	assert.Equal(t, 3, res.Issues[1].Row)
	assert.Equal(t, "ten", res.Issues[1].Value)
}

func TestValidateTableMissingVendorColumn(t *testing.T) {
	table := &types.Table{
		Headers: []string{"Payee"},
		Rows:    []types.Row{{"Payee": "Acme"}},
	}

	res := validation.ValidateTable(table, "Vendor", "Amount")

	assert.False(t, res.IsValid)
	assert.Equal(t, 1, res.ErrorCount)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0].Error(), "[ERROR] Field 'Vendor'")
	assert.Contains(t, res.Issues[0].Message, "Payee")
}

func TestValidateTableMissingAmountColumnWarns(t *testing.T) {
	table := &types.Table{
		Headers: []string{"Vendor"},
		Rows:    []types.Row{{"Vendor": "Acme"}},
	}

	res := validation.ValidateTable(table, "Vendor", "Amount")
	assert.True(t, res.IsValid)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, validation.SeverityWarning, res.Issues[0].Severity)

	res = validation.ValidateTable(table, "Vendor", "")
	assert.Empty(t, res.Issues)
}

func TestValidateTableEmpty(t *testing.T) {
	res := validation.ValidateTable(nil, "Vendor", "Amount")
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Issues)
}

func TestFormatAndWriteIssues(t *testing.T) {
	assert.Equal(t, "No validation issues.", validation.FormatIssues(nil))

	issues := []*validation.Issue{{
		Severity: validation.SeverityWarning,
		Rule:     validation.RuleBadAmount,
		Row:      7,
		Field:    "Amount",
		Value:    "n/a",
		Message:  "amount is not a number; counted as zero",
	}}
	path := filepath.Join(t.TempDir(), "issues.log")
	require.NoError(t, validation.WriteIssueLog(issues, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1 issue(s)")
	assert.Contains(t, string(data), "1. [WARNING] Row 7, Field 'Amount'")
}
