package importer

import (
	"fmt"
	"strconv"
)

// validate.go runs a field roster plus cross-field checks over one raw row.
// Validators are pure: they append human-readable messages and never fail
// on expected-invalid input; store access happens only at commit time.

// ValidateCustomerRow validates one customer row against its detected
// subtype's roster. An unknown subtype (from an explicit customer_type cell)
// yields a single error rather than a panic.
func ValidateCustomerRow(subtype CustomerSubtype, row Row) []string {
	rules, ok := rulesForSubtype(subtype)
	if !ok {
		return []string{fmt.Sprintf("unknown customer type %q", subtype)}
	}
	return runRules(rules, row)
}

// ValidatePropertyRow validates one property row, including the boundary
// all-four-or-none rule and the latitude/longitude pairing rule.
func ValidatePropertyRow(row Row) []string {
	errs := runRules(propertyRules, row)
	errs = append(errs, checkBoundaries(row)...)
	errs = append(errs, checkCoordinates(row)...)
	return errs
}

// ValidateAssessmentRow validates one tax-assessment row. tax_year is the
// one required field that also gets a format check: it keys the duplicate
// (property, tax_year) pre-check at commit time, and transform would
// otherwise stand in "0" for a malformed year and key the assessment on it.
// The duplicate check itself needs the store and runs at commit time.
func ValidateAssessmentRow(row Row) []string {
	errs := runRules(assessmentRules, row)
	if y := ResolveString(row, "tax_year"); y != "" {
		if msg := checkYear("tax_year", y); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

// ValidatePaymentRow validates one tax-payment row. A payment must point at
// something: either a tax-assessment reference or a property reference.
func ValidatePaymentRow(row Row) []string {
	errs := runRules(paymentRules, row)
	if ResolveString(row, "assessment_ref") == "" && ResolveString(row, "property_ref") == "" {
		errs = append(errs, "either assessment_ref or property_ref is required")
	}
	if v := ResolveString(row, "amount_paid"); v != "" {
		if msg := checkNumeric("amount_paid", v); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

// runRules applies a roster: required fields are flagged when empty after
// alias resolution; optional fields are format-checked only when present.
func runRules(rules []fieldRule, row Row) []string {
	var errs []string
	for _, rule := range rules {
		value := ResolveString(row, rule.Field)

		if value == "" {
			if rule.Required {
				errs = append(errs, rule.Field+" is required")
			}
			continue
		}

		if !rule.Required && rule.Check != nil {
			if msg := rule.Check(rule.Field, value); msg != "" {
				errs = append(errs, msg)
			}
		}
	}
	return errs
}

// checkBoundaries enforces the all-four-or-none rule for parcel boundary
// sides. Partial boundaries would describe a parcel that cannot be plotted.
func checkBoundaries(row Row) []string {
	sides := []string{"boundary_north", "boundary_south", "boundary_east", "boundary_west"}
	present := 0
	for _, side := range sides {
		if ResolveString(row, side) != "" {
			present++
		}
	}
	if present > 0 && present < 4 {
		return []string{"boundary sides must be supplied all together (north, south, east, west) or not at all"}
	}
	return nil
}

// checkCoordinates enforces that latitude and longitude travel as a pair
// and fall inside their valid ranges.
func checkCoordinates(row Row) []string {
	lat := ResolveString(row, "latitude")
	lng := ResolveString(row, "longitude")

	var errs []string
	switch {
	case lat != "" && lng == "":
		errs = append(errs, "longitude is required when latitude is provided")
	case lng != "" && lat == "":
		errs = append(errs, "latitude is required when longitude is provided")
	}

	if lat != "" {
		if v, err := strconv.ParseFloat(lat, 64); err != nil || v < -90 || v > 90 {
			errs = append(errs, "latitude must be a number between -90 and 90")
		}
	}
	if lng != "" {
		if v, err := strconv.ParseFloat(lng, 64); err != nil || v < -180 || v > 180 {
			errs = append(errs, "longitude must be a number between -180 and 180")
		}
	}
	return errs
}
