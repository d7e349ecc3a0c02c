package core

import "strings"

// monthCodes maps lowercase full names and standard abbreviations to the
// canonical 3-letter uppercase code stored in the ledger.
var monthCodes = map[string]string{
	"january": "JAN", "jan": "JAN",
	"february": "FEB", "feb": "FEB",
	"march": "MAR", "mar": "MAR",
	"april": "APR", "apr": "APR",
	"may": "MAY",
	"june": "JUN", "jun": "JUN",
	"july": "JUL", "jul": "JUL",
	"august": "AUG", "aug": "AUG",
	"september": "SEP", "sep": "SEP",
	"october": "OCT", "oct": "OCT",
	"november": "NOV", "nov": "NOV",
	"december": "DEC", "dec": "DEC",
}

// NormalizeMonth maps a free-text month spelling to its canonical code.
// Matching is case-insensitive and accepts full names and abbreviations.
// Empty input returns empty. Unrecognized input is not rejected: it is
// upper-cased and passed through unchanged, so the function is total and
// idempotent.
func NormalizeMonth(s string) string {
	if s == "" {
		return ""
	}
	trimmed := strings.TrimSpace(s)
	if code, ok := monthCodes[strings.ToLower(trimmed)]; ok {
		return code
	}
	return strings.ToUpper(trimmed)
}
