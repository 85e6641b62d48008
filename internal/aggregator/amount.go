package aggregator

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyNoise = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "",
	" ", "", "\u00a0", "",
)

// amountPattern accepts plain numbers and comma-grouped thousands with a dot
// decimal. "12,50" and "1.234,50" do not match.
var amountPattern = regexp.MustCompile(`^[+-]?(\d{1,3}(,\d{3})+|\d*)(\.\d+)?$`)

// ParseAmount reads a money cell such as "1,234.50", "$99", "(12.00)",
// "$(12.00)" or "-3". Blank or unreadable cells return false, including
// decimal-comma cells like "12,50".
func ParseAmount(cell string) (decimal.Decimal, bool) {
	s := currencyNoise.Replace(strings.TrimSpace(cell))
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	if !amountPattern.MatchString(s) {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
