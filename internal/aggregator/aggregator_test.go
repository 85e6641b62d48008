package aggregator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/vendor-matching/internal/aggregator"
	"github.com/ginjaninja78/vendor-matching/internal/clusterer"
	"github.com/ginjaninja78/vendor-matching/internal/types"
)

func table(headers []string, rows ...types.Row) *types.Table {
	return &types.Table{Headers: headers, Rows: rows}
}

func TestProcessSumsGroupAmounts(t *testing.T) {
	tbl := table([]string{"Vendor", "Amount"},
		types.Row{"Vendor": "Acme Inc", "Amount": "100"},
		types.Row{"Vendor": "Acme Incorporated", "Amount": "50"},
		types.Row{"Vendor": "Widget Co", "Amount": "20"},
	)

	res := aggregator.Process(tbl, aggregator.DefaultOptions())
	require.False(t, res.Failed())
	require.NotNil(t, res.Report)

	require.Len(t, res.Report.Summary, 1)
	rec := res.Report.Summary[0]
	assert.Equal(t, "Acme Inc", rec.PrimaryName)
	assert.Equal(t, "Acme Inc, Acme Incorporated", rec.MatchedNames)
	assert.Equal(t, 2, rec.Variations)
	assert.Equal(t, "150.00", rec.TotalAmount.String())

	assert.Equal(t, types.Stats{
		TotalUniqueVendors:  3,
		MatchedGroups:       1,
		TotalMatchedVendors: 2,
		UnmatchedVendors:    1,
	}, res.Report.Stats)
}

func TestAggregateWithoutAmountColumn(t *testing.T) {
	tbl := table([]string{"Vendor"},
		types.Row{"Vendor": "Acme Inc"},
		types.Row{"Vendor": "ACME Inc."},
	)
	match := clusterer.Cluster(tbl.Column("Vendor"), clusterer.DefaultOptions())

	report, err := aggregator.Aggregate(tbl, match, "Vendor", "Amount")
	require.NoError(t, err)
	require.Len(t, report.Summary, 1)
	assert.False(t, report.Summary[0].TotalAmount.Valid)
	assert.Equal(t, types.NotAvailable, report.Summary[0].TotalAmount.String())
}

func TestAggregateEmptyInput(t *testing.T) {
	report, err := aggregator.Aggregate(table([]string{"Vendor", "Amount"}), types.MatchResult{}, "Vendor", "Amount")
	require.ErrorIs(t, err, aggregator.ErrEmptyInput)
	require.Nil(t, report)

	res := aggregator.Process(nil, aggregator.DefaultOptions())
	require.True(t, res.Failed())
	require.Equal(t, "input table is empty", res.Error)
	require.Nil(t, res.Report)
}

func TestAggregateTrimsAndSkipsBlankVendors(t *testing.T) {
	tbl := table([]string{"Vendor", "Amount"},
		types.Row{"Vendor": " Acme Inc ", "Amount": "10.005"},
		types.Row{"Vendor": "Acme Inc", "Amount": "0.1"},
		types.Row{"Vendor": "ACME INC.", "Amount": "0.2"},
		types.Row{"Vendor": "", "Amount": "999"},
		types.Row{"Vendor": "Globex", "Amount": "not a number"},
	)

	res := aggregator.Process(tbl, aggregator.DefaultOptions())
	require.False(t, res.Failed())

	stats := res.Report.Stats
	assert.Equal(t, 3, stats.TotalUniqueVendors)
	assert.Equal(t, stats.TotalUniqueVendors, stats.TotalMatchedVendors+stats.UnmatchedVendors)

	require.Len(t, res.Report.Summary, 1)
	assert.Equal(t, "Acme Inc, ACME INC.", res.Report.Summary[0].MatchedNames)
	assert.Equal(t, "10.31", res.Report.Summary[0].TotalAmount.String())
}

func TestAggregateKeepsDiscoveryOrder(t *testing.T) {
	tbl := table([]string{"Vendor", "Amount"},
		types.Row{"Vendor": "Widget Co", "Amount": "1"},
		types.Row{"Vendor": "Acme Inc", "Amount": "2"},
		types.Row{"Vendor": "Widget Company", "Amount": "3"},
		types.Row{"Vendor": "Acme LLC", "Amount": "4"},
	)

	res := aggregator.Process(tbl, aggregator.DefaultOptions())
	require.False(t, res.Failed())
	require.Len(t, res.Report.Summary, 2)
	assert.Equal(t, "Widget Co", res.Report.Summary[0].PrimaryName)
	assert.Equal(t, "4.00", res.Report.Summary[0].TotalAmount.String())
	assert.Equal(t, "Acme Inc", res.Report.Summary[1].PrimaryName)
	assert.Equal(t, "6.00", res.Report.Summary[1].TotalAmount.String())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1,234.50", "1234.5", true},
		{"$99", "99", true},
		{"(12.00)", "-12", true},
		{"$(12.00)", "-12", true},
		{"1,234", "1234", true},
		{".5", "0.5", true},
		{"12,50", "0", false},
		{"1.234,50", "0", false},
		{"1,23,4", "0", false},
		{"$", "0", false},
		{" -3 ", "-3", true},
		{"abc", "0", false},
		{"", "0", false},
	}
	for _, tt := range tests {
		got, ok := aggregator.ParseAmount(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}
}
