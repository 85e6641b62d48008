package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTableColumn(t *testing.T) {
	table := &Table{
		Headers: []string{"Vendor", "Amount"},
		Rows:    []Row{{"Vendor": "Acme", "Amount": "1"}, {"Vendor": "Globex"}},
	}

	assert.True(t, table.HasColumn("Vendor"))
	assert.False(t, table.HasColumn("vendor"))
	assert.Equal(t, []string{"1", ""}, table.Column("Amount"))
}

func TestMatchResult(t *testing.T) {
	res := MatchResult{Groups: []Group{
		{Primary: "Acme Inc", Members: []string{"Acme Inc", "ACME Inc."}},
		{Primary: "Globex", Members: []string{"Globex", "Globex Corp", "GLOBEX"}},
	}}

	assert.Equal(t, 5, res.MatchedCount())

	g, ok := res.Lookup("Globex")
	require.True(t, ok)
	assert.Equal(t, 3, g.Size())

	_, ok = res.Lookup("Initech")
	assert.False(t, ok)

	// The mapping is a copy.
	m := res.Matches()
	m["Acme Inc"][0] = "changed"
	assert.Equal(t, "Acme Inc", res.Groups[0].Members[0])
}

func TestAmountRendering(t *testing.T) {
	present := NewAmount(decimal.RequireFromString("150.005"))
	missing := MissingAmount()

	assert.Equal(t, "150.01", present.String())
	assert.Equal(t, NotAvailable, missing.String())
	assert.Equal(t, 150.01, present.Interface())
	assert.Equal(t, NotAvailable, missing.Interface())

	data, err := json.Marshal(struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}{present, missing})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 150.01, "b": "N/A"}`, string(data))

	out, err := yaml.Marshal(map[string]Amount{"a": NewAmount(decimal.NewFromInt(10)), "b": missing})
	require.NoError(t, err)
	assert.Equal(t, "a: 10.00\nb: N/A\n", string(out))
}

func TestResultFailed(t *testing.T) {
	assert.True(t, Result{Error: "input table is empty"}.Failed())
	assert.False(t, Result{Report: &Report{}}.Failed())
	assert.Equal(t, "a, b", JoinMembers([]string{"a", "b"}))
}
