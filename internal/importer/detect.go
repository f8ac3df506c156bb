package importer

import "strings"

// detect.go decides which customer subtype a raw row represents. An explicit
// customer_type column wins outright; otherwise a fixed-priority cascade of
// field-presence checks applies. The cascade order is a deliberate
// tie-break: specific name fields are tested before the catch-all
// RESIDENTIAL and PERSON cases, because a RESIDENTIAL row intentionally
// carries no name field at all.

// detectRule is one step of the cascade. Rules run in slice order and the
// first match wins.
type detectRule struct {
	subtype CustomerSubtype
	match   func(Row) bool
}

// nameFields are the canonical fields whose presence marks a row as naming
// somebody or something. RESIDENTIAL detection requires all of them absent.
var nameFields = []string{
	"first_name", "last_name", "business_name", "department_name",
	"institution_name", "organization_name", "rental_name",
}

var detectCascade = []detectRule{
	{SubtypeBusiness, func(r Row) bool {
		return has(r, "business_name")
	}},
	{SubtypeGovernment, func(r Row) bool {
		return has(r, "department_name")
	}},
	{SubtypeMosqueHospital, func(r Row) bool {
		return has(r, "institution_name") && !has(r, "first_name")
	}},
	{SubtypeNonProfit, func(r Row) bool {
		return has(r, "organization_name")
	}},
	{SubtypeResidential, func(r Row) bool {
		if !has(r, "property_id") {
			return false
		}
		if !has(r, "size") && !has(r, "floor") && !has(r, "file_number") && !has(r, "address") {
			return false
		}
		for _, f := range nameFields {
			if has(r, f) {
				return false
			}
		}
		return true
	}},
	{SubtypeRental, func(r Row) bool {
		return has(r, "rental_name")
	}},
}

// DetectSubtype returns the customer subtype for a raw row. Deterministic:
// the same row always resolves to the same subtype.
//
// An explicit customer_type value is trusted verbatim (upper-cased, not
// re-validated here); validation of unknown subtypes happens downstream.
func DetectSubtype(row Row) CustomerSubtype {
	if explicit := ResolveString(row, "customer_type"); explicit != "" {
		return CustomerSubtype(strings.ToUpper(explicit))
	}

	for _, rule := range detectCascade {
		if rule.match(row) {
			return rule.subtype
		}
	}
	return SubtypePerson
}

// has reports whether any alias of a canonical field appears as a column in
// the row. Detection keys on column presence, not cell content: a row that
// carries a blank business_name column is still a BUSINESS row, because the
// spreadsheet it came from was a business template.
func has(row Row, field string) bool {
	for _, alias := range aliasesFor(field) {
		if _, ok := row[alias]; ok {
			return true
		}
		want := strings.ToLower(strings.TrimSpace(alias))
		for key := range row {
			if strings.ToLower(strings.TrimSpace(key)) == want {
				return true
			}
		}
	}
	return false
}
