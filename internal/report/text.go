package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/vendor-matching/internal/types"
)

// =============================================================================
// JSON / YAML
// =============================================================================

type envelope struct {
	Matches orderedMatches        `json:"matches" yaml:"matches"`
	Summary []types.SummaryRecord `json:"summary" yaml:"summary"`
	Stats   types.Stats           `json:"stats" yaml:"stats"`
}

type errorEnvelope struct {
	Error string `json:"error" yaml:"error" msgpack:"error" xml:"error"`
}

func newEnvelope(r *types.Report) envelope {
	summary := r.Summary
	if summary == nil {
		summary = []types.SummaryRecord{}
	}
	return envelope{
		Matches: orderedMatches(r.Matches.Groups),
		Summary: summary,
		Stats:   r.Stats,
	}
}

// orderedMatches renders primary -> members as a mapping in group order.
type orderedMatches []types.Group

// MarshalJSON implements json.Marshaler.
func (m orderedMatches) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSON(&buf, g.Primary); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeJSON(&buf, g.Members); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler.
func (m orderedMatches) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, g := range m {
		members := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, name := range g.Members {
			members.Content = append(members.Content, stringNode(name))
		}
		node.Content = append(node.Content, stringNode(g.Primary), members)
	}
	return node, nil
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// encodeJSON appends v without HTML escaping or a trailing newline.
func encodeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

func writeJSON(w io.Writer, res types.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if res.Failed() {
		return enc.Encode(errorEnvelope{Error: res.Error})
	}
	return enc.Encode(newEnvelope(res.Report))
}

func writeYAML(w io.Writer, res types.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	var err error
	if res.Failed() {
		err = enc.Encode(errorEnvelope{Error: res.Error})
	} else {
		err = enc.Encode(newEnvelope(res.Report))
	}
	if err != nil {
		return err
	}
	return enc.Close()
}

// =============================================================================
// XML
// =============================================================================

type xmlReport struct {
	XMLName xml.Name     `xml:"vendorMatchReport"`
	Error   string       `xml:"error,omitempty"`
	Matches *xmlMatches  `xml:"matches,omitempty"`
	Summary *xmlSummary  `xml:"summary,omitempty"`
	Stats   *types.Stats `xml:"stats,omitempty"`
}

type xmlMatches struct {
	Groups []xmlGroup `xml:"group"`
}

type xmlGroup struct {
	Primary string   `xml:"primary,attr"`
	Members []string `xml:"member"`
}

type xmlSummary struct {
	Records []xmlRecord `xml:"record"`
}

type xmlRecord struct {
	PrimaryName  string `xml:"primaryName"`
	MatchedNames string `xml:"matchedNames"`
	Variations   int    `xml:"variations"`
	TotalAmount  string `xml:"totalAmount"`
}

func newXMLReport(res types.Result) xmlReport {
	if res.Failed() {
		return xmlReport{Error: res.Error}
	}

	r := res.Report
	doc := xmlReport{
		Matches: &xmlMatches{},
		Summary: &xmlSummary{},
		Stats:   &r.Stats,
	}
	for _, g := range r.Matches.Groups {
		doc.Matches.Groups = append(doc.Matches.Groups, xmlGroup{Primary: g.Primary, Members: g.Members})
	}
	for _, rec := range r.Summary {
		doc.Summary.Records = append(doc.Summary.Records, xmlRecord{
			PrimaryName:  rec.PrimaryName,
			MatchedNames: rec.MatchedNames,
			Variations:   rec.Variations,
			TotalAmount:  rec.TotalAmount.String(),
		})
	}
	return doc
}

func writeXML(w io.Writer, res types.Result) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(newXMLReport(res)); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// =============================================================================
// CSV
// =============================================================================

func writeCSV(w io.Writer, res types.Result) error {
	cw := csv.NewWriter(w)

	if res.Failed() {
		cw.Write([]string{"error"})
		cw.Write([]string{res.Error})
	} else {
		cw.Write(SummaryColumns)
		for _, rec := range res.Report.Summary {
			cw.Write(summaryRow(rec))
		}
	}

	cw.Flush()
	return cw.Error()
}
