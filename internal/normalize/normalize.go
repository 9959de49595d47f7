// Package normalize converts the free-form date and amount strings that come
// back from cheque extraction into canonical forms.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ISODate is the canonical layout every normalized date is rendered in.
const ISODate = "2006-01-02"

// dateLayouts are tried in this exact order. Several inputs are ambiguous
// across layouts (day/month swap), so the order is the tie-break policy and
// must stay deterministic. The non-padded layout forms accept both "1/2/2024"
// and "01/02/2024"; models emit either spelling.
var dateLayouts = []string{
	"2-1-2006", // DD-MM-YYYY
	"2/1/2006", // DD/MM/YYYY
	"2006-1-2", // YYYY-MM-DD
	"1-2-2006", // MM-DD-YYYY
	"1/2/2006", // MM/DD/YYYY
	"2 1 2006", // DD MM YYYY
}

// InvalidDateError reports a date string that matched none of the recognized
// layouts.
type InvalidDateError struct {
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date format: %q (expected MMDDYYYY, DD-MM-YYYY, or YYYY-MM-DD)", e.Input)
}

// Date converts a cheque date in any of the recognized layouts to YYYY-MM-DD.
// A bare 8-digit string is read as MMDDYYYY before the separated layouts are
// tried. Returns *InvalidDateError when nothing matches.
func Date(input string) (string, error) {
	s := strings.TrimSpace(input)

	if len(s) == 8 && isDigits(s) {
		if t, err := time.Parse("01022006", s); err == nil {
			return t.Format(ISODate), nil
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate), nil
		}
	}

	return "", &InvalidDateError{Input: input}
}

// Amount parses a monetary string after stripping currency symbols, commas
// and any other non-numeric characters. Empty or unparseable input yields
// zero rather than an error; malformed amounts degrade silently instead of
// aborting a cheque.
func Amount(input string) decimal.Decimal {
	if input == "" {
		return decimal.Zero
	}

	var b strings.Builder
	for _, r := range input {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
