// =============================================================================
// Vendor Matcher - Transformation Engine
// =============================================================================
//
// This module cleans column values before matching. Bank and card exports
// carry noise the fuzzy matcher should not have to fight:
//   - Processor prefixes ("SQ *", "PAYPAL *", "TST*")
//   - Store numbers ("WALMART #1234")
//   - Known aliases ("AMZN MKTP US" -> "Amazon")
//
// Rules come from config.VendorRules. Each rule names a column and a list
// of actions applied in order. Rules for columns the table does not have
// are skipped and reported by MissingFields.
//
// EXAMPLE RULE:
//   vendor_rules:
//     - field: Vendor
//       actions:
//         - type: regex_replace
//           find: '^(SQ|TST|PAYPAL) ?\*'
//           value: ""
//         - type: regex_replace
//           find: '#\d+'
//           value: ""
//         - type: normalize_whitespace
//
// =============================================================================

package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/vendor-matching/internal/config"
	"github.com/ginjaninja78/vendor-matching/internal/types"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer applies configured column rules.
type Transformer struct {
	rules []compiledRule
}

type compiledRule struct {
	field   string
	actions []compiledAction
}

type compiledAction struct {
	config.TransformationAction
	re *regexp.Regexp
}

// New compiles rules. Regex patterns are compiled once here so a bad
// pattern fails before any file is touched.
//
// RETURNS:
//   - The transformer.
//   - An error naming the rule and action whose pattern does not compile.
func New(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{rules: make([]compiledRule, 0, len(rules))}

	for i, rule := range rules {
		cr := compiledRule{field: rule.Field, actions: make([]compiledAction, 0, len(rule.Actions))}
		for j, action := range rule.Actions {
			ca := compiledAction{TransformationAction: action}
			if action.Type == "regex_replace" {
				re, err := regexp.Compile(action.Find)
				if err != nil {
					return nil, fmt.Errorf("vendor_rules[%d].actions[%d]: invalid regex pattern: %w", i, j, err)
				}
				ca.re = re
			}
			cr.actions = append(cr.actions, ca)
		}
		t.rules = append(t.rules, cr)
	}

	return t, nil
}

// Empty reports whether there are no rules to apply.
func (t *Transformer) Empty() bool {
	return t == nil || len(t.rules) == 0
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// Transform applies every rule for fieldName to value.
func (t *Transformer) Transform(fieldName, value string) (string, error) {
	if t == nil {
		return value, nil
	}

	result := value
	for _, rule := range t.rules {
		if rule.field != fieldName {
			continue
		}
		for _, action := range rule.actions {
			var err error
			result, err = action.apply(result)
			if err != nil {
				return "", fmt.Errorf("transformation '%s' failed: %w", action.Type, err)
			}
		}
	}

	return result, nil
}

// Apply rewrites the table in place.
//
// RETURNS:
//   - The number of cells whose value changed.
//   - An error naming the first row that failed.
func (t *Transformer) Apply(table *types.Table) (int, error) {
	if t.Empty() || table == nil {
		return 0, nil
	}

	changed := 0
	for i, row := range table.Rows {
		for _, rule := range t.rules {
			current, ok := row[rule.field]
			if !ok {
				continue
			}
			next, err := t.Transform(rule.field, current)
			if err != nil {
				return changed, fmt.Errorf("row %d, field %q: %w", i+1, rule.field, err)
			}
			if next != current {
				row[rule.field] = next
				changed++
			}
		}
	}

	return changed, nil
}

// MissingFields lists rule fields the table has no column for.
func (t *Transformer) MissingFields(table *types.Table) []string {
	if t.Empty() || table == nil {
		return nil
	}

	var missing []string
	seen := map[string]bool{}
	for _, rule := range t.rules {
		if seen[rule.field] || table.HasColumn(rule.field) {
			continue
		}
		seen[rule.field] = true
		missing = append(missing, rule.field)
	}
	return missing
}

// apply runs a single action.
//
// SUPPORTED TRANSFORMATIONS:
//   See the switch statement below. The set matches the oneof list on
//   config.TransformationAction.Type.
func (a compiledAction) apply(value string) (string, error) {
	switch a.Type {
	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "normalize_whitespace":
		// "ACME   \t INC" -> "ACME INC"
		return strings.Join(strings.Fields(value), " "), nil

	case "replace":
		if a.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, a.Find, a.Value), nil

	case "regex_replace":
		// EXAMPLE:
		//   Input: "SQ *BLUE BOTTLE #042"
		//   Action: regex_replace with find "#\d+" and value ""
		//   Output: "SQ *BLUE BOTTLE "
		if a.re == nil {
			return value, nil
		}
		return a.re.ReplaceAllString(value, a.Value), nil

	case "lookup":
		// Whole-value match after trimming; unmatched values pass through.
		if mapped, ok := a.LookupTable[strings.TrimSpace(value)]; ok {
			return mapped, nil
		}
		return value, nil

	case "if_empty_use_default":
		if strings.TrimSpace(value) == "" {
			return a.Value, nil
		}
		return value, nil

	default:
		return "", fmt.Errorf("unknown transformation type: %s", a.Type)
	}
}
