package importer

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/muniworks/landregistry/internal/store"
	"github.com/muniworks/landregistry/internal/store/storetest"
)

func newTestCreator(f *storetest.Fake) *Creator {
	return NewCreator(f, NewStoreSinks(f), discardLogger())
}

func TestNewReferenceID(t *testing.T) {
	re := regexp.MustCompile(`^CUS-\d{4}-[0-9A-F]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newReferenceID(refPrefixCustomer)
		if !re.MatchString(id) {
			t.Fatalf("newReferenceID() = %q, want PREFIX-YEAR-TOKEN shape", id)
		}
		if seen[id] {
			t.Fatalf("newReferenceID() repeated %q", id)
		}
		seen[id] = true
	}
}

func TestCreator_CreateCustomer(t *testing.T) {
	f := storetest.New()
	c := newTestCreator(f)

	can := TransformCustomer(SubtypePerson, validPersonRow())
	rec, err := c.Create(context.Background(), EntityCustomer, can, "clerk-1")
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}

	if !strings.HasPrefix(rec.ReferenceID, "CUS-") {
		t.Errorf("ReferenceID = %q, want CUS- prefix", rec.ReferenceID)
	}
	if rec.Status != StatusDraft {
		t.Errorf("Status = %q, want %q", rec.Status, StatusDraft)
	}

	parents := f.Rows(TableCustomers)
	if len(parents) != 1 {
		t.Fatalf("customers rows = %d, want 1", len(parents))
	}
	if parents[0]["customer_type"] != "PERSON" || parents[0]["created_by"] != "clerk-1" {
		t.Errorf("parent row = %v", parents[0])
	}

	details := f.Rows("customer_person")
	if len(details) != 1 {
		t.Fatalf("customer_person rows = %d, want 1", len(details))
	}
	if details[0]["customer_id"] != parents[0]["id"] {
		t.Errorf("detail customer_id = %v, parent id = %v", details[0]["customer_id"], parents[0]["id"])
	}

	// Side effects: one notification per privileged role, one audit entry,
	// one activity entry.
	if n := len(f.Rows(TableNotifications)); n != 2 {
		t.Errorf("notifications = %d, want 2", n)
	}
	if n := len(f.Rows(TableAuditLogs)); n != 1 {
		t.Errorf("audit logs = %d, want 1", n)
	}
	if n := len(f.Rows(TableActivityLogs)); n != 1 {
		t.Errorf("activity logs = %d, want 1", n)
	}
}

func TestCreator_DetailFailureDeletesParent(t *testing.T) {
	f := storetest.New()
	c := newTestCreator(f)
	f.FailNext("insert", "customer_person", store.KindConstraint)

	can := TransformCustomer(SubtypePerson, validPersonRow())
	if _, err := c.Create(context.Background(), EntityCustomer, can, "clerk-1"); err == nil {
		t.Fatal("Create() = nil error, want detail-insert failure")
	}

	// The just-created parent must be gone: a lookup finds nothing.
	if rows := f.Rows(TableCustomers); len(rows) != 0 {
		t.Errorf("customers rows = %v, want parent compensated away", rows)
	}
	if _, err := f.QueryOne(context.Background(), TableCustomers, store.Filter{}); store.KindOf(err) != store.KindNotFound {
		t.Errorf("QueryOne after rollback = %v, want not found", err)
	}

	// No side effects for a failed record.
	if n := len(f.Rows(TableAuditLogs)); n != 0 {
		t.Errorf("audit logs = %d, want 0", n)
	}
}

func TestCreator_ParentFailureCompensatesNothing(t *testing.T) {
	f := storetest.New()
	c := newTestCreator(f)
	f.FailNext("insert", TableCustomers, store.KindUnavailable)

	can := TransformCustomer(SubtypePerson, validPersonRow())
	if _, err := c.Create(context.Background(), EntityCustomer, can, "clerk-1"); err == nil {
		t.Fatal("Create() = nil error, want parent-insert failure")
	}

	for _, op := range f.Ops() {
		if op.Name == "delete" {
			t.Errorf("unexpected compensating delete on %s", op.Table)
		}
	}
}

func TestCreator_SinkFailureDoesNotRollBack(t *testing.T) {
	f := storetest.New()
	c := newTestCreator(f)
	f.FailAlways("insert", TableNotifications, store.KindInternal)

	can := TransformCustomer(SubtypeBusiness, Row{"business_name": "Acme Trading"})
	rec, err := c.Create(context.Background(), EntityCustomer, can, "clerk-1")
	if err != nil {
		t.Fatalf("Create() = %v, sink failures must not surface", err)
	}
	if rec == nil || rec.ID == "" {
		t.Fatal("Create() returned no record")
	}
	if n := len(f.Rows(TableCustomers)); n != 1 {
		t.Errorf("customers rows = %d, want record kept despite sink failure", n)
	}
}

func TestCreator_CreateProperty(t *testing.T) {
	t.Run("boundaries written alongside", func(t *testing.T) {
		f := storetest.New()
		c := newTestCreator(f)

		can := TransformProperty(Row{
			"parcel_number":  "PCL-2024-0091",
			"district":       "Hodan",
			"boundary_north": "Road",
			"boundary_south": "Parcel 90",
			"boundary_east":  "Canal",
			"boundary_west":  "Parcel 92",
		})
		rec, err := c.Create(context.Background(), EntityProperty, can, "clerk-1")
		if err != nil {
			t.Fatalf("Create() = %v", err)
		}
		if !strings.HasPrefix(rec.ReferenceID, "PROP-") {
			t.Errorf("ReferenceID = %q", rec.ReferenceID)
		}

		bounds := f.Rows(TablePropertyBoundaries)
		if len(bounds) != 1 {
			t.Fatalf("boundary rows = %d, want 1", len(bounds))
		}
		if bounds[0]["property_id"] != rec.ID || bounds[0]["north"] != "Road" {
			t.Errorf("boundary row = %v", bounds[0])
		}
	})

	t.Run("boundary failure keeps the property", func(t *testing.T) {
		f := storetest.New()
		c := newTestCreator(f)
		f.FailNext("insert", TablePropertyBoundaries, store.KindConstraint)

		can := TransformProperty(Row{
			"parcel_number":  "PCL-2024-0091",
			"district":       "Hodan",
			"boundary_north": "Road",
			"boundary_south": "Parcel 90",
			"boundary_east":  "Canal",
			"boundary_west":  "Parcel 92",
		})
		if _, err := c.Create(context.Background(), EntityProperty, can, "clerk-1"); err != nil {
			t.Fatalf("Create() = %v, boundary failure must not surface", err)
		}
		if n := len(f.Rows(TableProperties)); n != 1 {
			t.Errorf("properties rows = %d, want property kept", n)
		}
	})

	t.Run("ownership links an existing customer", func(t *testing.T) {
		f := storetest.New()
		c := newTestCreator(f)

		cusCan := TransformCustomer(SubtypeBusiness, Row{"business_name": "Acme"})
		cus, err := c.Create(context.Background(), EntityCustomer, cusCan, "clerk-1")
		if err != nil {
			t.Fatalf("customer Create() = %v", err)
		}

		can := TransformProperty(Row{
			"parcel_number": "PCL-2024-0091",
			"district":      "Hodan",
			"owner_ref":     cus.ReferenceID,
		})
		rec, err := c.Create(context.Background(), EntityProperty, can, "clerk-1")
		if err != nil {
			t.Fatalf("property Create() = %v", err)
		}

		links := f.Rows(TablePropertyOwnership)
		if len(links) != 1 {
			t.Fatalf("ownership rows = %d, want 1", len(links))
		}
		if links[0]["property_id"] != rec.ID || links[0]["customer_id"] != cus.ID {
			t.Errorf("ownership row = %v", links[0])
		}
	})

	t.Run("unknown owner keeps the property", func(t *testing.T) {
		f := storetest.New()
		c := newTestCreator(f)

		can := TransformProperty(Row{
			"parcel_number": "PCL-2024-0091",
			"district":      "Hodan",
			"owner_ref":     "CUS-2026-DEADBEEF",
		})
		if _, err := c.Create(context.Background(), EntityProperty, can, "clerk-1"); err != nil {
			t.Fatalf("Create() = %v, bad owner link must not surface", err)
		}
		if n := len(f.Rows(TableProperties)); n != 1 {
			t.Errorf("properties rows = %d, want property kept", n)
		}
		if n := len(f.Rows(TablePropertyOwnership)); n != 0 {
			t.Errorf("ownership rows = %d, want 0", n)
		}
	})
}

func TestCreator_CreateAssessment(t *testing.T) {
	newProperty := func(t *testing.T, f *storetest.Fake, c *Creator) *Record {
		t.Helper()
		can := TransformProperty(Row{"parcel_number": "PCL-2024-0091", "district": "Hodan"})
		rec, err := c.Create(context.Background(), EntityProperty, can, "clerk-1")
		if err != nil {
			t.Fatalf("property Create() = %v", err)
		}
		return rec
	}

	t.Run("resolves property by reference id", func(t *testing.T) {
		f := storetest.New()
		c := newTestCreator(f)
		prop := newProperty(t, f, c)

		can := TransformAssessment(Row{
			"property_ref":   prop.ReferenceID,
			"tax_year":       "2026",
			"assessed_value": "85000",
			"tax_amount":     "1275",
		})
		rec, err := c.Create(context.Background(), EntityTaxAssessment, can, "clerk-1")
		if err != nil {
			t.Fatalf("Create() = %v", err)
		}
		if !strings.HasPrefix(rec.ReferenceID, "TAX-") {
			t.Errorf("ReferenceID = %q", rec.ReferenceID)
		}

		rows := f.Rows(TableTaxAssessments)
		if len(rows) != 1 {
			t.Fatalf("assessment rows = %d, want 1", len(rows))
		}
		if rows[0]["property_id"] != prop.ID || rows[0]["tax_year"] != "2026" {
			t.Errorf("assessment row = %v", rows[0])
		}
		if _, ok := rows[0]["property_ref"]; ok {
			t.Error("property_ref must not be persisted, only resolved")
		}
	})

	t.Run("resolves property by parcel number", func(t *testing.T) {
		f := storetest.New()
		c := newTestCreator(f)
		newProperty(t, f, c)

		can := TransformAssessment(Row{
			"property_ref":   "PCL-2024-0091",
			"tax_year":       "2026",
			"assessed_value": "85000",
			"tax_amount":     "1275",
		})
		if _, err := c.Create(context.Background(), EntityTaxAssessment, can, "clerk-1"); err != nil {
			t.Fatalf("Create() = %v", err)
		}
	})

	t.Run("duplicate year for the same property rejected", func(t *testing.T) {
		f := storetest.New()
		c := newTestCreator(f)
		prop := newProperty(t, f, c)

		row := Row{
			"property_ref":   prop.ReferenceID,
			"tax_year":       "2026",
			"assessed_value": "85000",
			"tax_amount":     "1275",
		}
		if _, err := c.Create(context.Background(), EntityTaxAssessment, TransformAssessment(row), "clerk-1"); err != nil {
			t.Fatalf("first Create() = %v", err)
		}

		_, err := c.Create(context.Background(), EntityTaxAssessment, TransformAssessment(row), "clerk-1")
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("second Create() = %v, want duplicate rejection", err)
		}
		if n := len(f.Rows(TableTaxAssessments)); n != 1 {
			t.Errorf("assessment rows = %d, want 1", n)
		}
	})

	t.Run("unknown property rejected", func(t *testing.T) {
		f := storetest.New()
		c := newTestCreator(f)

		can := TransformAssessment(Row{
			"property_ref":   "PROP-2026-DEADBEEF",
			"tax_year":       "2026",
			"assessed_value": "85000",
			"tax_amount":     "1275",
		})
		_, err := c.Create(context.Background(), EntityTaxAssessment, can, "clerk-1")
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("Create() = %v, want referenced-property failure", err)
		}
	})
}

func TestCreator_CreatePayment(t *testing.T) {
	setup := func(t *testing.T) (*storetest.Fake, *Creator, *Record, *Record) {
		t.Helper()
		f := storetest.New()
		c := newTestCreator(f)

		prop, err := c.Create(context.Background(), EntityProperty,
			TransformProperty(Row{"parcel_number": "PCL-2024-0091", "district": "Hodan"}), "clerk-1")
		if err != nil {
			t.Fatalf("property Create() = %v", err)
		}
		assess, err := c.Create(context.Background(), EntityTaxAssessment,
			TransformAssessment(Row{
				"property_ref":   prop.ReferenceID,
				"tax_year":       "2026",
				"assessed_value": "85000",
				"tax_amount":     "1275",
			}), "clerk-1")
		if err != nil {
			t.Fatalf("assessment Create() = %v", err)
		}
		return f, c, prop, assess
	}

	t.Run("against an assessment", func(t *testing.T) {
		f, c, _, assess := setup(t)

		can := TransformPayment(Row{
			"amount_paid":    "1275",
			"payment_date":   "2026-03-01",
			"assessment_ref": assess.ReferenceID,
		})
		rec, err := c.Create(context.Background(), EntityTaxPayment, can, "clerk-1")
		if err != nil {
			t.Fatalf("Create() = %v", err)
		}
		if !strings.HasPrefix(rec.ReferenceID, "PAY-") {
			t.Errorf("ReferenceID = %q", rec.ReferenceID)
		}

		rows := f.Rows(TableTaxPayments)
		if len(rows) != 1 {
			t.Fatalf("payment rows = %d, want 1", len(rows))
		}
		if rows[0]["assessment_id"] != assess.ID {
			t.Errorf("payment row = %v, want linked to assessment %s", rows[0], assess.ID)
		}
	})

	t.Run("against a property", func(t *testing.T) {
		f, c, prop, _ := setup(t)

		can := TransformPayment(Row{
			"amount_paid":  "500",
			"payment_date": "2026-03-01",
			"property_ref": prop.ReferenceID,
		})
		if _, err := c.Create(context.Background(), EntityTaxPayment, can, "clerk-1"); err != nil {
			t.Fatalf("Create() = %v", err)
		}

		rows := f.Rows(TableTaxPayments)
		if len(rows) != 1 || rows[0]["property_id"] != prop.ID {
			t.Errorf("payment rows = %v, want linked to property %s", rows, prop.ID)
		}
	})

	t.Run("unknown assessment rejected", func(t *testing.T) {
		_, c, _, _ := setup(t)

		can := TransformPayment(Row{
			"amount_paid":    "1275",
			"payment_date":   "2026-03-01",
			"assessment_ref": "TAX-2026-DEADBEEF",
		})
		_, err := c.Create(context.Background(), EntityTaxPayment, can, "clerk-1")
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("Create() = %v, want referenced-assessment failure", err)
		}
	})
}
