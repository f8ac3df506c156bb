package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// rules.go declares the per-variant field rosters: which canonical fields a
// record kind carries, which of them are required, and how present optional
// values are format-checked. The asymmetry between subtypes (PERSON needs
// ten fields, BUSINESS needs none) is business policy and preserved exactly.

// validate is the shared format validator. Only stateless Var checks are
// used, so a single instance is safe for concurrent use.
var validate = validator.New()

// phoneRe matches the accepted international phone shape:
// +<1-3 digit country code> then three dash-optional groups of 3-4 digits.
var phoneRe = regexp.MustCompile(`^\+\d{1,3}-?\d{3,4}-?\d{3,4}-?\d{3,4}$`)

// isoDateRe is a shape gate for YYYY-MM-DD before the calendar check.
var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// checkFunc validates one present value and returns an error message, or ""
// when the value is acceptable.
type checkFunc func(field, value string) string

// fieldRule binds a canonical field to its requiredness and format check.
// Required fields are checked for presence only; format checks apply to
// optional fields that carry a value, and never flag an absent one.
type fieldRule struct {
	Field    string
	Required bool
	Check    checkFunc
}

func checkEmail(field, value string) string {
	if validate.Var(value, "email") != nil {
		return field + " must be a valid email address"
	}
	return ""
}

func checkUUID(field, value string) string {
	if validate.Var(value, "uuid") != nil {
		return field + " must be a valid UUID"
	}
	return ""
}

func checkPhone(field, value string) string {
	if !phoneRe.MatchString(value) {
		return field + " must be an international phone number like +252-61-555-0100"
	}
	return ""
}

func checkISODate(field, value string) string {
	if !isoDateRe.MatchString(value) {
		return field + " must be a date in YYYY-MM-DD format"
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return field + " is not a real calendar date"
	}
	return ""
}

func checkNumeric(field, value string) string {
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return field + " must be a number"
	}
	return ""
}

func checkYear(field, value string) string {
	y, err := strconv.Atoi(value)
	if err != nil || y < 1900 || y > 2100 {
		return field + " must be a four-digit year"
	}
	return ""
}

func checkMaxLen(n int) checkFunc {
	return func(field, value string) string {
		if len(value) > n {
			return fmt.Sprintf("%s must be at most %d characters", field, n)
		}
		return ""
	}
}

func checkEnum(allowed ...string) checkFunc {
	return func(field, value string) string {
		for _, a := range allowed {
			if strings.EqualFold(value, a) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))
	}
}

// Customer subtype rosters. Required counts per subtype are intentional:
// identity-bearing kinds (PERSON, RENTAL) demand full identification, org
// kinds demand a name and a contact, BUSINESS demands nothing at all, and
// RESIDENTIAL needs only the unit identifier.

var personRules = []fieldRule{
	{Field: "first_name", Required: true},
	{Field: "last_name", Required: true},
	{Field: "middle_name", Check: checkMaxLen(100)},
	{Field: "gender", Required: true},
	{Field: "date_of_birth", Required: true},
	{Field: "mobile", Required: true},
	{Field: "email", Required: true},
	{Field: "id_type", Required: true},
	{Field: "id_number", Required: true},
	{Field: "district", Required: true},
	{Field: "address", Required: true},
	{Field: "occupation", Check: checkMaxLen(100)},
}

var businessRules = []fieldRule{
	{Field: "business_name", Check: checkMaxLen(200)},
	{Field: "license_number", Check: checkMaxLen(50)},
	{Field: "tin", Check: checkMaxLen(50)},
	{Field: "business_type", Check: checkEnum("SOLE_PROPRIETOR", "PARTNERSHIP", "CORPORATION", "COOPERATIVE")},
	{Field: "contact_name", Check: checkMaxLen(100)},
	{Field: "contact_mobile", Check: checkPhone},
	{Field: "email", Check: checkEmail},
	{Field: "established_date", Check: checkISODate},
	{Field: "district", Check: checkMaxLen(100)},
	{Field: "address", Check: checkMaxLen(300)},
}

var governmentRules = []fieldRule{
	{Field: "department_name", Required: true},
	{Field: "department_id", Required: true},
	{Field: "contact_name", Required: true},
	{Field: "contact_number", Required: true},
	{Field: "ministry", Check: checkMaxLen(150)},
	{Field: "email", Check: checkEmail},
	{Field: "address", Check: checkMaxLen(300)},
}

var mosqueHospitalRules = []fieldRule{
	{Field: "institution_name", Required: true},
	{Field: "registration_number", Required: true},
	{Field: "contact_name", Required: true},
	{Field: "contact_number", Required: true},
	{Field: "institution_type", Check: checkEnum("MOSQUE", "HOSPITAL")},
	{Field: "email", Check: checkEmail},
	{Field: "address", Check: checkMaxLen(300)},
}

var nonProfitRules = []fieldRule{
	{Field: "organization_name", Required: true},
	{Field: "registration_number", Required: true},
	{Field: "contact_name", Required: true},
	{Field: "contact_number", Required: true},
	{Field: "focus_area", Check: checkMaxLen(150)},
	{Field: "email", Check: checkEmail},
	{Field: "address", Check: checkMaxLen(300)},
}

var residentialRules = []fieldRule{
	{Field: "property_id", Required: true},
	{Field: "size", Check: checkNumeric},
	{Field: "floor", Check: checkNumeric},
	{Field: "file_number", Check: checkMaxLen(50)},
	{Field: "block", Check: checkMaxLen(50)},
	{Field: "address", Check: checkMaxLen(300)},
}

var rentalRules = []fieldRule{
	{Field: "rental_name", Required: true},
	{Field: "gender", Required: true},
	{Field: "date_of_birth", Required: true},
	{Field: "mobile", Required: true},
	{Field: "email", Required: true},
	{Field: "id_type", Required: true},
	{Field: "id_number", Required: true},
	{Field: "district", Required: true},
	{Field: "address", Required: true},
	{Field: "property_ref", Required: true},
	{Field: "monthly_rent", Check: checkNumeric},
}

var propertyRules = []fieldRule{
	{Field: "parcel_number", Required: true},
	{Field: "district", Required: true},
	{Field: "property_type", Check: checkEnum("RESIDENTIAL", "COMMERCIAL", "AGRICULTURAL", "INDUSTRIAL", "PUBLIC")},
	{Field: "size", Check: checkNumeric},
	{Field: "zone", Check: checkMaxLen(50)},
	{Field: "file_number", Check: checkMaxLen(50)},
	{Field: "address", Check: checkMaxLen(300)},
	{Field: "owner_ref", Check: checkMaxLen(100)},
	{Field: "boundary_north", Check: checkMaxLen(200)},
	{Field: "boundary_south", Check: checkMaxLen(200)},
	{Field: "boundary_east", Check: checkMaxLen(200)},
	{Field: "boundary_west", Check: checkMaxLen(200)},
}

var assessmentRules = []fieldRule{
	{Field: "property_ref", Required: true},
	{Field: "tax_year", Required: true},
	{Field: "assessed_value", Required: true},
	{Field: "tax_amount", Required: true},
	{Field: "assessment_date", Check: checkISODate},
	{Field: "due_date", Check: checkISODate},
	{Field: "notes", Check: checkMaxLen(500)},
}

var paymentRules = []fieldRule{
	{Field: "amount_paid", Required: true},
	{Field: "payment_date", Required: true},
	{Field: "assessment_ref", Check: checkMaxLen(100)},
	{Field: "property_ref", Check: checkMaxLen(100)},
	{Field: "payment_method", Check: checkEnum("CASH", "BANK_TRANSFER", "MOBILE_MONEY", "CHEQUE")},
	{Field: "receipt_number", Check: checkMaxLen(50)},
	{Field: "payer_name", Check: checkMaxLen(100)},
}

// rulesForSubtype returns the roster for a customer subtype.
func rulesForSubtype(st CustomerSubtype) ([]fieldRule, bool) {
	switch st {
	case SubtypePerson:
		return personRules, true
	case SubtypeBusiness:
		return businessRules, true
	case SubtypeGovernment:
		return governmentRules, true
	case SubtypeMosqueHospital:
		return mosqueHospitalRules, true
	case SubtypeNonProfit:
		return nonProfitRules, true
	case SubtypeResidential:
		return residentialRules, true
	case SubtypeRental:
		return rentalRules, true
	}
	return nil, false
}
