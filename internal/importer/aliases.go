package importer

// aliases.go is the single source of truth for accepted spreadsheet header
// spellings. Every validator and transformer resolves fields through these
// tables; per-handler alias lists are deliberately not allowed, so a new
// spreadsheet revision is accommodated by one edit here.

// fieldAliases maps a canonical field name to the accepted alternative
// header spellings, in priority order. The canonical name itself is always
// tried first and does not need to be listed.
var fieldAliases = map[string][]string{
	// shared
	"customer_type": {"type", "Customer Type", "customer type"},
	"district":      {"District", "district_name", "region"},
	"address":       {"Address", "street_address", "location"},
	"email":         {"Email", "email_address", "e-mail"},

	// person / rental identity
	"first_name":    {"firstname", "First Name", "fname", "given_name"},
	"last_name":     {"lastname", "Last Name", "lname", "surname", "family_name"},
	"middle_name":   {"middlename", "Middle Name"},
	"gender":        {"Gender", "sex"},
	"date_of_birth": {"dob", "DOB", "birth_date", "Date of Birth", "birthdate"},
	"mobile":        {"mobile_number", "Mobile", "phone", "phone_number", "Phone Number"},
	"id_type":       {"identification_type", "ID Type", "id type"},
	"id_number":     {"identification_number", "ID Number", "id number", "national_id"},
	"occupation":    {"Occupation", "profession"},

	// business
	"business_name":    {"company_name", "Business Name", "business", "company"},
	"license_number":   {"License Number", "business_license", "licence_number"},
	"tin":              {"TIN", "tax_identification_number", "tax_id"},
	"business_type":    {"Business Type", "company_type"},
	"contact_name":     {"Contact Name", "contact_person", "representative"},
	"contact_mobile":   {"Contact Mobile", "contact_phone"},
	"established_date": {"Established Date", "date_established", "founded"},

	// government
	"department_name": {"government_name", "Department", "department", "agency_name"},
	"department_id":   {"Department ID", "agency_id", "government_id"},
	"ministry":        {"Ministry", "parent_ministry"},
	"contact_number":  {"Contact Number", "contact_no", "office_number"},

	// mosque / hospital
	"institution_name":    {"mosque_hospital_name", "mosque_name", "hospital_name", "Institution Name"},
	"institution_type":    {"Institution Type", "facility_type"},
	"registration_number": {"Registration Number", "reg_number", "reg_no"},

	// non-profit
	"organization_name": {"ngo_name", "non_profit_name", "Organization Name", "org_name"},
	"focus_area":        {"Focus Area", "sector"},

	// residential / property unit
	"property_id": {"unit_id", "property_number", "Property ID", "unit", "unit_number"},
	"size":        {"Size", "area", "square_meters", "sqm"},
	"floor":       {"Floor", "floor_number", "level"},
	"file_number": {"File Number", "file_no", "fileno"},
	"block":       {"Block", "block_number"},

	// rental
	"rental_name":  {"renter_name", "tenant_name", "Rental Name", "lessee_name"},
	"monthly_rent": {"Monthly Rent", "rent_amount", "rent"},
	"property_ref": {"property_reference", "Property Reference", "parcel_number", "property_id"},

	// property (parcel)
	"parcel_number":  {"parcel_id", "plot_number", "Parcel Number", "plot_no"},
	"property_type":  {"Property Type", "parcel_type", "land_use"},
	"zone":           {"Zone", "zoning", "zone_code"},
	"latitude":       {"Latitude", "lat"},
	"longitude":      {"Longitude", "lng", "long", "lon"},
	"boundary_north": {"north_boundary", "North", "north"},
	"boundary_south": {"south_boundary", "South", "south"},
	"boundary_east":  {"east_boundary", "East", "east"},
	"boundary_west":  {"west_boundary", "West", "west"},
	"owner_ref":      {"owner_reference", "customer_reference", "owner_id", "customer_id"},

	// tax assessment
	"tax_year":        {"Tax Year", "year", "assessment_year"},
	"assessed_value":  {"Assessed Value", "property_value", "valuation"},
	"tax_amount":      {"Tax Amount", "amount_due", "tax_due"},
	"assessment_date": {"Assessment Date", "assessed_on"},
	"due_date":        {"Due Date", "payment_due", "deadline"},
	"notes":           {"Notes", "remarks", "comment"},

	// tax payment
	"assessment_ref": {"tax_assessment_reference", "assessment_reference", "assessment_id"},
	"amount_paid":    {"Amount Paid", "payment_amount", "amount", "paid_amount"},
	"payment_date":   {"Payment Date", "paid_on", "date_paid"},
	"payment_method": {"Payment Method", "method", "pay_method"},
	"receipt_number": {"Receipt Number", "receipt_no", "receipt"},
	"payer_name":     {"Payer Name", "paid_by", "payer"},
}

// aliasesFor returns the resolver alias list for a canonical field: the
// canonical name first, then the registered alternatives.
func aliasesFor(field string) []string {
	alts := fieldAliases[field]
	out := make([]string, 0, len(alts)+1)
	out = append(out, field)
	out = append(out, alts...)
	return out
}
