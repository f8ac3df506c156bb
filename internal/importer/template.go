package importer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// template.go emits the header list and example row used to seed upload
// spreadsheets. Purely descriptive: no store access. Headers mirror the
// validation rosters so a sheet built from a template always resolves.

// Template describes an upload spreadsheet for one entity (or subtype).
type Template struct {
	Headers []string       `json:"headers"`
	Example map[string]any `json:"example"`
}

// exampleValues are representative cell values per canonical field.
var exampleValues = map[string]any{
	"customer_type":       "PERSON",
	"first_name":          "Amina",
	"last_name":           "Hassan",
	"middle_name":         "Ali",
	"gender":              "FEMALE",
	"date_of_birth":       "1985-04-12",
	"mobile":              "+252-61-555-0100",
	"email":               "amina.hassan@example.com",
	"id_type":             "PASSPORT",
	"id_number":           "P1234567",
	"district":            "Hodan",
	"address":             "Taleh Road 14",
	"occupation":          "Teacher",
	"business_name":       "Juba Trading Co",
	"license_number":      "LIC-2024-0042",
	"tin":                 "TIN-555001",
	"business_type":       "CORPORATION",
	"contact_name":        "Omar Yusuf",
	"contact_mobile":      "+252-61-555-0111",
	"contact_number":      "+252-61-555-0122",
	"established_date":    "2010-06-01",
	"department_name":     "Public Works",
	"department_id":       "DPW-07",
	"ministry":            "Ministry of Interior",
	"institution_name":    "Al-Nur Mosque",
	"institution_type":    "MOSQUE",
	"registration_number": "REG-2201",
	"organization_name":   "Hope Relief",
	"focus_area":          "Education",
	"property_id":         "PR-0051",
	"size":                "120",
	"floor":               "2",
	"file_number":         "F-8841",
	"block":               "B4",
	"rental_name":         "Khadija Noor",
	"monthly_rent":        "350",
	"property_ref":        "PROP-2025-A1B2C3D4",
	"parcel_number":       "PCL-0099",
	"property_type":       "RESIDENTIAL",
	"zone":                "Z-12",
	"latitude":            "2.0469",
	"longitude":           "45.3182",
	"boundary_north":      "Main road",
	"boundary_south":      "Parcel PCL-0100",
	"boundary_east":       "Drainage canal",
	"boundary_west":       "Parcel PCL-0098",
	"owner_ref":           "CUS-2025-A1B2C3D4",
	"tax_year":            "2025",
	"assessed_value":      "85000",
	"tax_amount":          "425",
	"assessment_date":     "2025-02-15",
	"due_date":            "2025-06-30",
	"notes":               "Initial assessment",
	"assessment_ref":      "TAX-2025-A1B2C3D4",
	"amount_paid":         "425",
	"payment_date":        "2025-03-20",
	"payment_method":      "MOBILE_MONEY",
	"receipt_number":      "RCT-10021",
	"payer_name":          "Amina Hassan",
}

// TemplateFor returns the template for an entity type. The subtype applies
// to customers only and defaults to PERSON.
func TemplateFor(entity EntityType, subtype CustomerSubtype) (*Template, error) {
	var rules []fieldRule

	switch entity {
	case EntityCustomer:
		r, ok := rulesForSubtype(subtype)
		if !ok {
			return nil, &Error{Status: 400, Code: "IMP002",
				Message: fmt.Sprintf("unknown customer type %q", subtype)}
		}
		rules = r
	case EntityProperty:
		rules = propertyRules
	case EntityTaxAssessment:
		rules = assessmentRules
	case EntityTaxPayment:
		rules = paymentRules
	default:
		return nil, &Error{Status: 400, Code: "IMP001",
			Message: fmt.Sprintf("unknown entity type %q", entity)}
	}

	t := &Template{Example: make(map[string]any, len(rules))}
	for _, rule := range rules {
		t.Headers = append(t.Headers, rule.Field)
		if v, ok := exampleValues[rule.Field]; ok {
			t.Example[rule.Field] = v
		}
	}
	if entity == EntityCustomer {
		t.Headers = append([]string{"customer_type"}, t.Headers...)
		t.Example["customer_type"] = string(subtype)
	}
	return t, nil
}

// XLSX renders the template as a single-sheet workbook: header row plus the
// example row, with header cells bolded.
func (t *Template) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	for i, header := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("template xlsx: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("template xlsx: %w", err)
		}

		example, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, fmt.Errorf("template xlsx: %w", err)
		}
		if v, ok := t.Example[header]; ok {
			if err := f.SetCellValue(sheet, example, v); err != nil {
				return nil, fmt.Errorf("template xlsx: %w", err)
			}
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil && len(t.Headers) > 0 {
		last, cerr := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if cerr == nil {
			_ = f.SetCellStyle(sheet, "A1", last, style)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("template xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
