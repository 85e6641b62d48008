// =============================================================================
// Vendor Matcher - Shared Types
// =============================================================================
//
// This package contains the value types shared by the matching pipeline. They
// live here to avoid import cycles between:
//   - clusterer   (produces MatchResult)
//   - aggregator  (produces Report and Result)
//   - csvparser / xlsxparser (produce Table)
//   - report      (serializes Result)
//
// All values are built fresh per invocation; nothing here holds shared state.
//
// =============================================================================

package types

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// INPUT TABLE
// =============================================================================

// Row is a single input row keyed by column header.
type Row map[string]string

// Table is a loaded transaction export.
type Table struct {
	// Headers holds the column headers in file order.
	Headers []string

	// Rows holds the data rows. Blank rows are already dropped by the loaders.
	Rows []Row

	// Source is the file the table was loaded from, if any.
	Source string
}

// HasColumn reports whether the table declares the given header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// =============================================================================
// MATCH RESULT
// =============================================================================

// Group is a set of vendor spellings anchored to one primary name.
type Group struct {
	// Primary is the representative name. It is always Members[0].
	Primary string

	// Members holds every spelling in the group, primary first, in the
	// order they were absorbed.
	Members []string
}

// Size returns the number of members.
func (g Group) Size() int {
	return len(g.Members)
}

// MatchResult holds the reportable groups in discovery order.
type MatchResult struct {
	Groups []Group
}

// Lookup returns the group anchored at primary.
func (m MatchResult) Lookup(primary string) (Group, bool) {
	for _, g := range m.Groups {
		if g.Primary == primary {
			return g, true
		}
	}
	return Group{}, false
}

// Matches returns the primary -> members mapping.
func (m MatchResult) Matches() map[string][]string {
	out := make(map[string][]string, len(m.Groups))
	for _, g := range m.Groups {
		out[g.Primary] = append([]string(nil), g.Members...)
	}
	return out
}

// MatchedCount returns the number of vendors that belong to any group.
func (m MatchResult) MatchedCount() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.Members)
	}
	return n
}

// =============================================================================
// REPORTING
// =============================================================================

// NotAvailable is the marker rendered when no amount column exists.
const NotAvailable = "N/A"

// Amount is a group total that may be absent.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// NewAmount returns a present amount rounded to cents.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Value: d.Round(2), Valid: true}
}

// MissingAmount returns the absent marker.
func MissingAmount() Amount {
	return Amount{}
}

// String renders "150.00" or "N/A".
func (a Amount) String() string {
	if !a.Valid {
		return NotAvailable
	}
	return a.Value.StringFixed(2)
}

// Interface returns a float64 for present amounts and the "N/A" string otherwise.
// Encoders without a custom hook use this.
func (a Amount) Interface() any {
	if !a.Valid {
		return NotAvailable
	}
	return a.Value.InexactFloat64()
}

// MarshalJSON writes a bare number with two decimals, or "N/A".
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return json.Marshal(NotAvailable)
	}
	return []byte(a.Value.StringFixed(2)), nil
}

// MarshalYAML writes a float scalar with two decimals, or "N/A".
func (a Amount) MarshalYAML() (interface{}, error) {
	if !a.Valid {
		return NotAvailable, nil
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: a.Value.StringFixed(2)}, nil
}

// SummaryRecord is one reportable group.
type SummaryRecord struct {
	PrimaryName  string `json:"Primary Name" yaml:"Primary Name"`
	MatchedNames string `json:"Matched Names" yaml:"Matched Names"`
	Variations   int    `json:"Variations" yaml:"Variations"`
	TotalAmount  Amount `json:"Total Amount" yaml:"Total Amount"`
}

// Stats summarises a run.
//
// UnmatchedVendors is always TotalUniqueVendors - TotalMatchedVendors.
type Stats struct {
	TotalUniqueVendors  int `json:"total_unique_vendors" yaml:"total_unique_vendors" msgpack:"total_unique_vendors" xml:"total_unique_vendors"`
	MatchedGroups       int `json:"matched_groups" yaml:"matched_groups" msgpack:"matched_groups" xml:"matched_groups"`
	TotalMatchedVendors int `json:"total_matched_vendors" yaml:"total_matched_vendors" msgpack:"total_matched_vendors" xml:"total_matched_vendors"`
	UnmatchedVendors    int `json:"unmatched_vendors" yaml:"unmatched_vendors" msgpack:"unmatched_vendors" xml:"unmatched_vendors"`
}

// Report is the successful outcome of aggregation.
type Report struct {
	Matches MatchResult
	Summary []SummaryRecord
	Stats   Stats
}

// Result is the envelope handed to writers: either a report or an error message.
// Callers must check Error before reading the report.
type Result struct {
	Report *Report
	Error  string
}

// Failed reports whether the result carries an error.
func (r Result) Failed() bool {
	return r.Error != ""
}

// JoinMembers joins member names the way summary records show them.
func JoinMembers(members []string) string {
	return strings.Join(members, ", ")
}
