package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/vendor-matching/internal/config"
	"github.com/ginjaninja78/vendor-matching/internal/types"
)

func settings() config.CSVSettings {
	return config.Default().CSVSettings
}

func TestParseReaderBasic(t *testing.T) {
	in := "Vendor,Amount\nAcme Inc,100\n\n  Widget Co , 20\n"

	table, err := ParseReader(strings.NewReader(in), "inline", settings())
	require.NoError(t, err)

	assert.Equal(t, "inline", table.Source)
	assert.Equal(t, []string{"Vendor", "Amount"}, table.Headers)
	assert.Equal(t, []types.Row{
		{"Vendor": "Acme Inc", "Amount": "100"},
		{"Vendor": "Widget Co", "Amount": "20"},
	}, table.Rows)
}

func TestParseReaderHeaderOnlyIsEmptyTable(t *testing.T) {
	table, err := ParseReader(strings.NewReader("Vendor,Amount\n"), "x", settings())
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.True(t, table.HasColumn("Amount"))

	table, err = ParseReader(strings.NewReader(""), "x", settings())
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Empty(t, table.Headers)
}

func TestParseReaderPipeAndMultiLineHeader(t *testing.T) {
	s := settings()
	s.Delimiter = "pipe"
	s.HeaderRows = 2
	in := "Vendor||Invoice\nName|Amount|Date\nAcme|5|2024-01-01\n"

	table, err := ParseReader(strings.NewReader(in), "x", s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vendor Name", "Amount", "Invoice Date"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Acme", table.Rows[0]["Vendor Name"])
}

func TestParseReaderDataStartRowSkipsNotes(t *testing.T) {
	s := settings()
	s.DataStartRow = 3
	in := "Vendor,Amount\n(exported from ledger),\nAcme,1\n"

	table, err := ParseReader(strings.NewReader(in), "x", s)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Acme", table.Rows[0]["Vendor"])
}

func TestParseReaderRaggedRowsAndBlankHeaders(t *testing.T) {
	in := "\ufeffVendor,,Amount\nAcme\n"

	table, err := ParseReader(strings.NewReader(in), "x", settings())
	require.NoError(t, err)
	assert.Equal(t, []string{"Vendor", "Column_2", "Amount"}, table.Headers)
	assert.Equal(t, types.Row{"Vendor": "Acme", "Column_2": "", "Amount": ""}, table.Rows[0])
}

func TestParseReaderLatin1(t *testing.T) {
	s := settings()
	s.Encoding = "ISO-8859-1"
	// "Société" in ISO-8859-1.
	in := []byte("Vendor\nSoci\xe9t\xe9\n")

	table, err := ParseReader(strings.NewReader(string(in)), "x", s)
	require.NoError(t, err)
	assert.Equal(t, "Société", table.Rows[0]["Vendor"])
}

func TestParseReaderRejectsUnknownEncoding(t *testing.T) {
	s := settings()
	s.Encoding = "EBCDIC"
	_, err := ParseReader(strings.NewReader("Vendor\n"), "x", s)
	require.ErrorContains(t, err, "unsupported encoding")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte("Vendor;Amount\nAcme;3\n"), 0o644))

	s := settings()
	s.Delimiter = ";"
	table, err := Parse(path, s)
	require.NoError(t, err)
	assert.Equal(t, path, table.Source)
	assert.Equal(t, []string{"Acme"}, table.Column("Vendor"))

	_, err = Parse(filepath.Join(t.TempDir(), "missing.csv"), s)
	require.ErrorContains(t, err, "failed to open file")
}

func TestConfigureReaderTab(t *testing.T) {
	s := settings()
	s.Delimiter = "\\t"
	table, err := ParseReader(strings.NewReader("Vendor\tAmount\nAcme\t1\n"), "x", s)
	require.NoError(t, err)
	assert.Equal(t, "1", table.Rows[0]["Amount"])
}
