package normalizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/vendor-matching/internal/normalizer"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"legal suffix with period", "ACME Inc.", "acme"},
		{"corporation", "Acme Corporation", "acme"},
		{"co with period", "Acme Co.", "acme"},
		{"leading suffix word", "Company Store", "store"},
		{"middle initial", "John M Doe", "john doe"},
		{"punctuation and spacing", "  Widget   &  Sons, LLC ", "widget sons"},
		{"dotted initials collapse", "A.B.C. Co", "abc"},
		{"digits survive", "3M Company", "3m"},
		{"suffix inside word kept", "Cornerstone Incline", "cornerstone incline"},
		{"co inside word kept", "Costco Wholesale", "costco wholesale"},
		{"unlisted long form kept", "Incorporated Widgets", "incorporated widgets"},
		{"accents kept by default", "Société Générale", "société générale"},
		{"only suffixes", "Co. Inc.", ""},
		{"empty", "", ""},
		{"integer", 123, ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, normalizer.Normalize(tt.in))
		})
	}
}

func TestNormalizeWithFoldAccents(t *testing.T) {
	got := normalizer.NormalizeWith("Société Générale S.A.", normalizer.Options{FoldAccents: true})
	require.Equal(t, "societe generale sa", got)
}

func TestNormalizeWithExtraSuffixes(t *testing.T) {
	require.Equal(t, "acme incorporated", normalizer.Normalize("Acme Incorporated"))

	opts := normalizer.Options{ExtraSuffixes: normalizer.LongFormSuffixes}
	require.Equal(t, "acme", normalizer.NormalizeWith("Acme Incorporated", opts))
	require.Equal(t, "widgets", normalizer.NormalizeWith("Widgets LIMITED", opts))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, in := range []string{"ACME Inc.", "John M Doe", "Widget & Sons, LLC", "3M Company"} {
		once := normalizer.Normalize(in)
		require.Equal(t, once, normalizer.Normalize(once), in)
	}
}
