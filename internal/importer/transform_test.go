package importer

import (
	"strings"
	"testing"
)

func TestTransformCustomer_Person(t *testing.T) {
	row := Row{
		"first_name":    "Amina",
		"last_name":     "Hassan",
		"gender":        "f",
		"dob":           float64(31149),
		"mobile":        "+252-61-555-0100",
		"id_type":       "NATIONAL_ID",
		"id_number":     "SOM-1984-5521",
		"district":      "Hodan",
		"address":       "Wadada 21 Oktoobar",
		"middle_name":   "Yusuf",
	}

	c := TransformCustomer(SubtypePerson, row)

	want := map[string]any{
		"first_name":    "Amina",
		"last_name":     "Hassan",
		"middle_name":   "Yusuf",
		"gender":        "FEMALE",
		"date_of_birth": "1985-04-12",
		"mobile":        "+252-61-555-0100",
		"id_type":       "NATIONAL_ID",
		"id_number":     "SOM-1984-5521",
		"district":      "Hodan",
		"address":       "Wadada 21 Oktoobar",
	}
	for k, v := range want {
		if c.Detail[k] != v {
			t.Errorf("Detail[%q] = %v, want %v", k, c.Detail[k], v)
		}
	}

	// Missing email synthesizes one from the name.
	if got, _ := c.Detail["email"].(string); got != "amina.hassan@unknown.invalid" {
		t.Errorf("email = %q, want synthesized amina.hassan@unknown.invalid", got)
	}
	// Absent optional stays absent.
	if _, ok := c.Detail["occupation"]; ok {
		t.Error("occupation should be absent, not placeholdered")
	}
}

func TestTransformCustomer_PersonPlaceholders(t *testing.T) {
	c := TransformCustomer(SubtypePerson, Row{})

	if c.Detail["first_name"] != "Unknown" || c.Detail["last_name"] != "Unknown" {
		t.Errorf("names = %v/%v, want Unknown/Unknown", c.Detail["first_name"], c.Detail["last_name"])
	}
	if c.Detail["gender"] != "MALE" {
		t.Errorf("gender = %v, want MALE default", c.Detail["gender"])
	}
	if c.Detail["date_of_birth"] != FallbackDate {
		t.Errorf("date_of_birth = %v, want %q", c.Detail["date_of_birth"], FallbackDate)
	}
	if c.Detail["mobile"] != "+000-0000-0000" {
		t.Errorf("mobile = %v, want null-routing placeholder", c.Detail["mobile"])
	}
	if id, _ := c.Detail["id_number"].(string); !strings.HasPrefix(id, "TMP-") || len(id) != len("TMP-")+8 {
		t.Errorf("id_number = %q, want TMP- pseudo-identifier", id)
	}
	email, _ := c.Detail["email"].(string)
	if !strings.HasPrefix(email, "record-") || !strings.HasSuffix(email, "@unknown.invalid") {
		t.Errorf("email = %q, want anonymous synthesized address", email)
	}
}

func TestTransformCustomer_BusinessKeepsAbsentsAbsent(t *testing.T) {
	c := TransformCustomer(SubtypeBusiness, Row{
		"business_name": "Acme Trading",
		"business_type": "corporation",
	})

	if c.Detail["business_name"] != "Acme Trading" {
		t.Errorf("business_name = %v", c.Detail["business_name"])
	}
	if c.Detail["business_type"] != "CORPORATION" {
		t.Errorf("business_type = %v, want upper-cased CORPORATION", c.Detail["business_type"])
	}
	for _, absent := range []string{"license_number", "tin", "email", "established_date", "district"} {
		if _, ok := c.Detail[absent]; ok {
			t.Errorf("%s should be absent", absent)
		}
	}
}

func TestTransformProperty(t *testing.T) {
	t.Run("boundaries only when all four present", func(t *testing.T) {
		c := TransformProperty(Row{
			"parcel_number":  "PCL-2024-0091",
			"district":       "Hodan",
			"boundary_north": "Road",
			"boundary_south": "Parcel 90",
			"boundary_east":  "Canal",
			"boundary_west":  "Parcel 92",
			"owner_ref":      "CUS-2026-A1B2C3D4",
		})

		if c.Boundaries == nil {
			t.Fatal("Boundaries = nil, want all four sides")
		}
		if c.Boundaries["north"] != "Road" || c.Boundaries["west"] != "Parcel 92" {
			t.Errorf("Boundaries = %v", c.Boundaries)
		}
		if c.OwnerRef != "CUS-2026-A1B2C3D4" {
			t.Errorf("OwnerRef = %q", c.OwnerRef)
		}
	})

	t.Run("partial boundaries are dropped", func(t *testing.T) {
		c := TransformProperty(Row{
			"parcel_number":  "PCL-2024-0091",
			"district":       "Hodan",
			"boundary_north": "Road",
		})
		if c.Boundaries != nil {
			t.Errorf("Boundaries = %v, want nil for partial set", c.Boundaries)
		}
	})

	t.Run("property type upper-cased", func(t *testing.T) {
		c := TransformProperty(Row{"parcel_number": "PCL-1", "property_type": "residential"})
		if c.Detail["property_type"] != "RESIDENTIAL" {
			t.Errorf("property_type = %v", c.Detail["property_type"])
		}
	})
}

func TestTransformAssessment(t *testing.T) {
	c := TransformAssessment(Row{
		"property_ref":    "PROP-2026-A1B2C3D4",
		"tax_year":        "2026",
		"assessed_value":  "85000",
		"tax_amount":      "1275",
		"assessment_date": "2026",
	})

	if c.PropertyRef != "PROP-2026-A1B2C3D4" || c.TaxYear != "2026" {
		t.Errorf("duplicate key = (%q, %q)", c.PropertyRef, c.TaxYear)
	}
	if c.Detail["assessment_date"] != "2026-01-01" {
		t.Errorf("assessment_date = %v, want bare-year coercion", c.Detail["assessment_date"])
	}
	if _, ok := c.Detail["due_date"]; ok {
		t.Error("due_date should be absent")
	}
}

func TestTransformPayment(t *testing.T) {
	c := TransformPayment(Row{
		"amount_paid":    "1275.50",
		"payment_date":   "01/15/2026",
		"payment_method": "mobile_money",
		"assessment_ref": "TAX-2026-A1B2C3D4",
	})

	if c.Detail["amount_paid"] != "1275.50" {
		t.Errorf("amount_paid = %v", c.Detail["amount_paid"])
	}
	if c.Detail["payment_date"] != "2026-01-15" {
		t.Errorf("payment_date = %v, want 2026-01-15", c.Detail["payment_date"])
	}
	if c.Detail["payment_method"] != "MOBILE_MONEY" {
		t.Errorf("payment_method = %v", c.Detail["payment_method"])
	}
	if c.Detail["assessment_ref"] != "TAX-2026-A1B2C3D4" {
		t.Errorf("assessment_ref = %v", c.Detail["assessment_ref"])
	}
	if _, ok := c.Detail["property_ref"]; ok {
		t.Error("property_ref should be absent")
	}
}
