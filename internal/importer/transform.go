package importer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/muniworks/landregistry/internal/store"
)

// transform.go maps a row judged valid into its canonical detail-table
// shape. Transformation is tolerant by contract: any required field still
// missing after alias resolution is filled with a deterministic placeholder
// so the detail insert can never trip a NOT NULL constraint, while optional
// fields stay absent (NULL) rather than placeholdered.

// Canonical is a transformed record ready for the record creator.
type Canonical struct {
	Subtype CustomerSubtype // customers only
	Detail  store.Values    // detail-table (or parent-table) column values

	// Property extras. Boundaries is non-nil only when all four sides were
	// supplied; OwnerRef carries an optional owning-customer reference.
	Boundaries store.Values
	OwnerRef   string

	// Assessment duplicate-check key.
	PropertyRef string
	TaxYear     string
}

// TransformCustomer produces the detail shape for a customer subtype.
func TransformCustomer(subtype CustomerSubtype, row Row) *Canonical {
	c := &Canonical{Subtype: subtype, Detail: store.Values{}}

	switch subtype {
	case SubtypePerson:
		first := fillName(row, "first_name")
		last := fillName(row, "last_name")
		c.Detail["first_name"] = first
		c.Detail["last_name"] = last
		putOptional(c.Detail, row, "middle_name")
		c.Detail["gender"] = NormalizeGender(ResolveField(row, "gender"))
		c.Detail["date_of_birth"] = NormalizeDate(ResolveField(row, "date_of_birth"))
		c.Detail["mobile"] = fillPhone(row, "mobile")
		c.Detail["email"] = fillEmail(row, first, last)
		c.Detail["id_type"] = fillText(row, "id_type", "UNKNOWN")
		c.Detail["id_number"] = fillRef(row, "id_number")
		c.Detail["district"] = fillText(row, "district", "Unknown")
		c.Detail["address"] = fillText(row, "address", "Unknown")
		putOptional(c.Detail, row, "occupation")

	case SubtypeBusiness:
		putOptional(c.Detail, row, "business_name")
		putOptional(c.Detail, row, "license_number")
		putOptional(c.Detail, row, "tin")
		putUpper(c.Detail, row, "business_type")
		putOptional(c.Detail, row, "contact_name")
		putOptional(c.Detail, row, "contact_mobile")
		putOptional(c.Detail, row, "email")
		if v := ResolveField(row, "established_date"); v != nil {
			c.Detail["established_date"] = NormalizeDate(v)
		}
		putOptional(c.Detail, row, "district")
		putOptional(c.Detail, row, "address")

	case SubtypeGovernment:
		c.Detail["department_name"] = fillText(row, "department_name", "Unknown")
		c.Detail["department_id"] = fillRef(row, "department_id")
		c.Detail["contact_name"] = fillText(row, "contact_name", "Unknown")
		c.Detail["contact_number"] = fillPhone(row, "contact_number")
		putOptional(c.Detail, row, "ministry")
		putOptional(c.Detail, row, "email")
		putOptional(c.Detail, row, "address")

	case SubtypeMosqueHospital:
		c.Detail["institution_name"] = fillText(row, "institution_name", "Unknown")
		c.Detail["registration_number"] = fillRef(row, "registration_number")
		c.Detail["contact_name"] = fillText(row, "contact_name", "Unknown")
		c.Detail["contact_number"] = fillPhone(row, "contact_number")
		putUpper(c.Detail, row, "institution_type")
		putOptional(c.Detail, row, "email")
		putOptional(c.Detail, row, "address")

	case SubtypeNonProfit:
		c.Detail["organization_name"] = fillText(row, "organization_name", "Unknown")
		c.Detail["registration_number"] = fillRef(row, "registration_number")
		c.Detail["contact_name"] = fillText(row, "contact_name", "Unknown")
		c.Detail["contact_number"] = fillPhone(row, "contact_number")
		putOptional(c.Detail, row, "focus_area")
		putOptional(c.Detail, row, "email")
		putOptional(c.Detail, row, "address")

	case SubtypeResidential:
		c.Detail["property_id"] = fillRef(row, "property_id")
		putOptional(c.Detail, row, "size")
		putOptional(c.Detail, row, "floor")
		putOptional(c.Detail, row, "file_number")
		putOptional(c.Detail, row, "block")
		putOptional(c.Detail, row, "address")

	case SubtypeRental:
		c.Detail["rental_name"] = fillText(row, "rental_name", "Unknown")
		c.Detail["gender"] = NormalizeGender(ResolveField(row, "gender"))
		c.Detail["date_of_birth"] = NormalizeDate(ResolveField(row, "date_of_birth"))
		c.Detail["mobile"] = fillPhone(row, "mobile")
		c.Detail["email"] = fillEmail(row, ResolveString(row, "rental_name"), "")
		c.Detail["id_type"] = fillText(row, "id_type", "UNKNOWN")
		c.Detail["id_number"] = fillRef(row, "id_number")
		c.Detail["district"] = fillText(row, "district", "Unknown")
		c.Detail["address"] = fillText(row, "address", "Unknown")
		c.Detail["property_ref"] = fillRef(row, "property_ref")
		putOptional(c.Detail, row, "monthly_rent")
	}

	return c
}

// TransformProperty produces the parent-row shape for a property plus its
// optional boundary and ownership extras.
func TransformProperty(row Row) *Canonical {
	c := &Canonical{Detail: store.Values{}}

	c.Detail["parcel_number"] = fillRef(row, "parcel_number")
	c.Detail["district"] = fillText(row, "district", "Unknown")
	putUpper(c.Detail, row, "property_type")
	putOptional(c.Detail, row, "size")
	putOptional(c.Detail, row, "zone")
	putOptional(c.Detail, row, "file_number")
	putOptional(c.Detail, row, "address")
	putOptional(c.Detail, row, "latitude")
	putOptional(c.Detail, row, "longitude")

	north := ResolveString(row, "boundary_north")
	south := ResolveString(row, "boundary_south")
	east := ResolveString(row, "boundary_east")
	west := ResolveString(row, "boundary_west")
	if north != "" && south != "" && east != "" && west != "" {
		c.Boundaries = store.Values{
			"north": north,
			"south": south,
			"east":  east,
			"west":  west,
		}
	}

	c.OwnerRef = ResolveString(row, "owner_ref")
	return c
}

// TransformAssessment produces the tax-assessment row shape.
func TransformAssessment(row Row) *Canonical {
	c := &Canonical{Detail: store.Values{}}

	c.PropertyRef = fillRef(row, "property_ref")
	c.TaxYear = fillText(row, "tax_year", "0")

	c.Detail["property_ref"] = c.PropertyRef
	c.Detail["tax_year"] = c.TaxYear
	c.Detail["assessed_value"] = fillText(row, "assessed_value", "0")
	c.Detail["tax_amount"] = fillText(row, "tax_amount", "0")
	if v := ResolveField(row, "assessment_date"); v != nil {
		c.Detail["assessment_date"] = NormalizeDate(v)
	}
	if v := ResolveField(row, "due_date"); v != nil {
		c.Detail["due_date"] = NormalizeDate(v)
	}
	putOptional(c.Detail, row, "notes")
	return c
}

// TransformPayment produces the tax-payment row shape.
func TransformPayment(row Row) *Canonical {
	c := &Canonical{Detail: store.Values{}}

	c.Detail["amount_paid"] = fillText(row, "amount_paid", "0")
	c.Detail["payment_date"] = NormalizeDate(ResolveField(row, "payment_date"))
	if v := ResolveString(row, "payment_method"); v != "" {
		c.Detail["payment_method"] = strings.ToUpper(v)
	}
	putOptional(c.Detail, row, "receipt_number")
	putOptional(c.Detail, row, "payer_name")
	putOptional(c.Detail, row, "assessment_ref")
	putOptional(c.Detail, row, "property_ref")
	return c
}

// putOptional copies an optional field when present; absent stays NULL.
func putOptional(vals store.Values, row Row, field string) {
	if v := ResolveString(row, field); v != "" {
		vals[field] = v
	}
}

// putUpper copies an optional enum field upper-cased.
func putUpper(vals store.Values, row Row, field string) {
	if v := ResolveString(row, field); v != "" {
		vals[field] = strings.ToUpper(v)
	}
}

// fillText resolves a required text field, substituting a fixed placeholder.
func fillText(row Row, field, placeholder string) string {
	if v := ResolveString(row, field); v != "" {
		return v
	}
	return placeholder
}

// fillName resolves a required name component, substituting "Unknown".
func fillName(row Row, field string) string {
	return fillText(row, field, "Unknown")
}

// fillPhone resolves a required phone field, substituting a null-routing
// placeholder that still satisfies the column shape.
func fillPhone(row Row, field string) string {
	return fillText(row, field, "+000-0000-0000")
}

// fillRef resolves a required identifier field, substituting a generated
// pseudo-identifier so the record can be created and corrected later.
func fillRef(row Row, field string) string {
	if v := ResolveString(row, field); v != "" {
		return v
	}
	return "TMP-" + strings.ToUpper(uuid.NewString()[:8])
}

// fillEmail resolves a required email field, synthesizing one from the
// record's name when the spreadsheet had none.
func fillEmail(row Row, first, last string) string {
	if v := ResolveString(row, "email"); v != "" {
		return v
	}
	name := strings.ToLower(strings.TrimSpace(first + "." + last))
	name = strings.Trim(name, ".")
	if name == "" || name == "unknown.unknown" {
		name = "record-" + strings.ToLower(uuid.NewString()[:8])
	}
	name = strings.ReplaceAll(name, " ", ".")
	return name + "@unknown.invalid"
}
