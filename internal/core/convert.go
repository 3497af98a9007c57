package core

// convert.go provides numeric conversion for catalog price and quantity cells.
//
// Parsing goes through pgtype.Numeric so that decimal text is held exactly
// until it is needed as a float (comparisons) or an integer (truncated
// exports). Only plain decimal text is accepted: currency symbols, thousands
// separators and exponents would survive unchanged into the decimal target's
// output, so they are rejected here instead.

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex matches integers and decimals with an optional sign.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ToNumeric converts decimal text to pgtype.Numeric.
// Returns invalid if the string is empty or not plain decimal text.
func ToNumeric(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// IsNumeric reports whether s parses as a number.
func IsNumeric(s string) bool {
	return ToNumeric(s).Valid
}

// ParseAmount returns the value of decimal text as a float64.
func ParseAmount(s string) (float64, bool) {
	n := ToNumeric(s)
	if !n.Valid {
		return 0, false
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return 0, false
	}
	return f.Float64, true
}

// TruncateAmount converts decimal text to whole units, truncating toward zero.
// The digits are cut on the exact decimal value, so amounts of any size keep
// every whole digit.
func TruncateAmount(s string) (string, bool) {
	n := ToNumeric(s)
	if !n.Valid || n.Int == nil {
		return "", false
	}

	whole := new(big.Int).Set(n.Int)
	switch {
	case n.Exp < 0:
		// Quo truncates toward zero.
		whole.Quo(whole, pow10(-n.Exp))
	case n.Exp > 0:
		whole.Mul(whole, pow10(n.Exp))
	}
	return whole.String(), true
}

func pow10(exp int32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}

// FormatAmount renders a computed amount as the shortest exact decimal text.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
