package importer

import (
	"fmt"
	"sort"
	"strings"
)

// resolve.go implements the column resolver: one canonical field can appear
// in a spreadsheet under several header spellings, and the same lookup must
// serve every validator and transformer so alias handling never drifts.

// Resolve returns the first non-empty value for a canonical field, trying
// the aliases in priority order. Matching is two-pass: an exact key match
// first, then a case-insensitive whitespace-trimmed scan over the row keys.
// Returns nil when no alias yields a value.
//
// Resolve is pure: the same row and aliases always produce the same value.
func Resolve(row Row, aliases []string) any {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && !isEmpty(v) {
			return v
		}
	}

	// Scan row keys in sorted order: two header variants normalizing to the
	// same alias must resolve identically on every call.
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, alias := range aliases {
		want := strings.ToLower(strings.TrimSpace(alias))
		for _, key := range keys {
			if strings.ToLower(strings.TrimSpace(key)) == want && !isEmpty(row[key]) {
				return row[key]
			}
		}
	}

	return nil
}

// ResolveField resolves a canonical field using its registered alias table.
func ResolveField(row Row, field string) any {
	return Resolve(row, aliasesFor(field))
}

// ResolveString resolves a canonical field and renders it as a trimmed
// string. Returns "" when the field is absent.
func ResolveString(row Row, field string) string {
	v := ResolveField(row, field)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(stringify(v))
}

// isEmpty reports whether a raw cell value counts as absent: nil, the empty
// string, or the JavaScript-origin sentinels "null" and "undefined" that
// spreadsheet exports occasionally carry as literal text.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	return s == "" || s == "null" || s == "undefined"
}

// stringify renders any raw cell value as a string. Numbers arriving from
// JSON decode as float64; integral values must not grow a ".000000" suffix.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case int:
		return fmt.Sprintf("%d", t)
	case int64:
		return fmt.Sprintf("%d", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}
