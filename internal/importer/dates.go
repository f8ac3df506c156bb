package importer

import (
	"strconv"
	"strings"
	"time"
)

// dates.go normalizes the date shapes spreadsheets actually produce:
// correct ISO strings, bare years, serial day numbers, and assorted
// free-text formats. Anything unrecognizable collapses to a fixed fallback
// so a required date column can always be filled.

// FallbackDate is the deterministic stand-in for a required date that could
// not be parsed at all.
const FallbackDate = "1900-01-01"

// serialEpoch is the spreadsheet day-zero (1899-12-30): serial date numbers
// count days from here.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// freeTextLayouts are tried in order for free-text date input. Four-digit
// year forms come first so they are never shadowed by ambiguous ones.
var freeTextLayouts = []string{
	"2006-01-02", "2006/01/02", "2006.01.02",
	"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006",
	"2 Jan 2006", "Jan 2 2006", "Jan 2, 2006", "January 2, 2006",
	"20060102",
	"1/2/06", "01/02/06",
}

// NormalizeDate converts any raw cell value to a YYYY-MM-DD string.
//
// Accepted inputs, in order of trust:
//   - an already-correct ISO string, returned as-is
//   - a bare four-digit year, mapped to January 1 of that year
//   - a spreadsheet serial day number (days since 1899-12-30)
//   - free-text dates parsed against known layouts
//
// Everything else returns FallbackDate.
func NormalizeDate(v any) string {
	if v == nil {
		return FallbackDate
	}

	// Numeric input straight from the spreadsheet cell.
	if f, ok := v.(float64); ok {
		return serialOrYear(f)
	}
	if n, ok := v.(int); ok {
		return serialOrYear(float64(n))
	}

	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return FallbackDate
	}

	if isoDateRe.MatchString(s) {
		if _, err := time.Parse("2006-01-02", s); err == nil {
			return s
		}
		return FallbackDate
	}

	// Numeric text: bare year or serial number. Out-of-range numbers fall
	// through to the layouts (compact forms like 19850412 land here).
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if d := serialOrYear(f); d != FallbackDate {
			return d
		}
	}

	for _, layout := range freeTextLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return FallbackDate
}

// serialOrYear interprets a numeric date cell. Values in the plausible year
// range are bare years; anything else in the plausible serial range is a
// day offset from the spreadsheet epoch.
func serialOrYear(f float64) string {
	n := int(f)
	if n >= 1900 && n <= 2100 && f == float64(n) {
		return time.Date(n, time.January, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}
	if f > 0 && f < 2958466 { // spreadsheet serial upper bound (year 9999)
		return serialEpoch.AddDate(0, 0, n).Format("2006-01-02")
	}
	return FallbackDate
}

// NormalizeGender maps free-form gender input onto the MALE/FEMALE enum.
// Ambiguous or unknown input defaults to MALE.
func NormalizeGender(v any) string {
	s := strings.ToUpper(strings.TrimSpace(stringify(v)))
	switch s {
	case "F", "FEMALE", "WOMAN", "W":
		return "FEMALE"
	default:
		return "MALE"
	}
}
