package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muniworks/landregistry/internal/store"
)

// creator.go performs the ordered multi-table writes for one transformed
// record. The parent row goes in first, then the subtype/detail rows; a
// failed detail insert deletes the just-created parent so no orphaned
// parent survives a partial creation. Supplementary rows (boundaries,
// ownership) and side effects never roll anything back.

// Reference-ID prefixes per entity type.
const (
	refPrefixCustomer   = "CUS"
	refPrefixProperty   = "PROP"
	refPrefixAssessment = "TAX"
	refPrefixPayment    = "PAY"
)

// newReferenceID generates a business key of the form PREFIX-YEAR-TOKEN.
// The token is random-derived, so concurrent batches cannot collide the way
// a count-based sequence would.
func newReferenceID(prefix string) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UTC().Year(), token)
}

// Creator performs record creation sagas against the store.
type Creator struct {
	store  store.Store
	sinks  Sinks
	logger *slog.Logger
}

// NewCreator builds a Creator. A nil logger falls back to slog.Default.
func NewCreator(s store.Store, sinks Sinks, logger *slog.Logger) *Creator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Creator{store: s, sinks: sinks, logger: logger}
}

// Create writes one transformed record and returns the created parent.
// The returned error carries the underlying store message for the commit
// result; side-effect failures never surface here.
func (c *Creator) Create(ctx context.Context, entity EntityType, can *Canonical, userID string) (*Record, error) {
	switch entity {
	case EntityCustomer:
		return c.createCustomer(ctx, can, userID)
	case EntityProperty:
		return c.createProperty(ctx, can, userID)
	case EntityTaxAssessment:
		return c.createAssessment(ctx, can, userID)
	case EntityTaxPayment:
		return c.createPayment(ctx, can, userID)
	}
	return nil, fmt.Errorf("unknown entity type %q", entity)
}

func (c *Creator) createCustomer(ctx context.Context, can *Canonical, userID string) (*Record, error) {
	rec := &Record{
		ReferenceID: newReferenceID(refPrefixCustomer),
		EntityType:  EntityCustomer,
		Subtype:     can.Subtype,
		Status:      StatusDraft,
		CreatedBy:   userID,
	}

	detailTable := DetailTable(can.Subtype)
	if detailTable == "" {
		return nil, fmt.Errorf("unknown customer type %q", can.Subtype)
	}

	var parentID uuid.UUID
	steps := []sagaStep{
		{
			name:      "insert customer parent",
			essential: true,
			run: func(ctx context.Context) error {
				id, err := c.store.Insert(ctx, TableCustomers, store.Values{
					"reference_id":  rec.ReferenceID,
					"customer_type": string(can.Subtype),
					"status":        rec.Status,
					"created_by":    userID,
					"created_at":    time.Now().UTC(),
					"updated_at":    time.Now().UTC(),
				})
				if err != nil {
					return err
				}
				parentID = id
				rec.ID = id.String()
				return nil
			},
			compensate: func(ctx context.Context) error {
				return c.store.Delete(ctx, TableCustomers, store.Filter{"id": parentID.String()})
			},
		},
		{
			name:      "insert customer detail",
			essential: true,
			run: func(ctx context.Context) error {
				detail := cloneValues(can.Detail)
				detail["customer_id"] = parentID.String()
				_, err := c.store.Insert(ctx, detailTable, detail)
				return err
			},
		},
	}
	steps = append(steps, c.sideEffectSteps(rec, userID)...)

	if err := runSaga(ctx, c.logger, steps); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Creator) createProperty(ctx context.Context, can *Canonical, userID string) (*Record, error) {
	rec := &Record{
		ReferenceID: newReferenceID(refPrefixProperty),
		EntityType:  EntityProperty,
		Status:      StatusDraft,
		CreatedBy:   userID,
	}

	var parentID uuid.UUID
	steps := []sagaStep{
		{
			name:      "insert property",
			essential: true,
			run: func(ctx context.Context) error {
				parent := cloneValues(can.Detail)
				parent["reference_id"] = rec.ReferenceID
				parent["status"] = rec.Status
				parent["created_by"] = userID
				parent["created_at"] = time.Now().UTC()
				parent["updated_at"] = time.Now().UTC()
				id, err := c.store.Insert(ctx, TableProperties, parent)
				if err != nil {
					return err
				}
				parentID = id
				rec.ID = id.String()
				return nil
			},
			compensate: func(ctx context.Context) error {
				return c.store.Delete(ctx, TableProperties, store.Filter{"id": parentID.String()})
			},
		},
	}

	// Ownership and boundaries are supplementary to a DRAFT property:
	// their failure is logged but never rolls the property back.
	if can.OwnerRef != "" {
		steps = append(steps, sagaStep{
			name: "link property ownership",
			run: func(ctx context.Context) error {
				owner, err := c.findCustomer(ctx, can.OwnerRef)
				if err != nil {
					return err
				}
				_, err = c.store.Insert(ctx, TablePropertyOwnership, store.Values{
					"property_id": parentID.String(),
					"customer_id": owner,
					"created_at":  time.Now().UTC(),
				})
				return err
			},
		})
	}
	if can.Boundaries != nil {
		steps = append(steps, sagaStep{
			name: "insert property boundaries",
			run: func(ctx context.Context) error {
				bounds := cloneValues(can.Boundaries)
				bounds["property_id"] = parentID.String()
				_, err := c.store.Insert(ctx, TablePropertyBoundaries, bounds)
				return err
			},
		})
	}

	steps = append(steps, c.sideEffectSteps(rec, userID)...)

	if err := runSaga(ctx, c.logger, steps); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Creator) createAssessment(ctx context.Context, can *Canonical, userID string) (*Record, error) {
	propertyID, err := c.findProperty(ctx, can.PropertyRef)
	if err != nil {
		return nil, err
	}

	// Reject duplicate (property, tax year) pairs before inserting.
	n, err := c.store.Count(ctx, TableTaxAssessments, store.Filter{
		"property_id": propertyID,
		"tax_year":    can.TaxYear,
	})
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, fmt.Errorf("a tax assessment for property %s and year %s already exists",
			can.PropertyRef, can.TaxYear)
	}

	rec := &Record{
		ReferenceID: newReferenceID(refPrefixAssessment),
		EntityType:  EntityTaxAssessment,
		Status:      StatusDraft,
		CreatedBy:   userID,
	}

	var parentID uuid.UUID
	steps := []sagaStep{
		{
			name:      "insert tax assessment",
			essential: true,
			run: func(ctx context.Context) error {
				vals := cloneValues(can.Detail)
				delete(vals, "property_ref")
				vals["property_id"] = propertyID
				vals["reference_id"] = rec.ReferenceID
				vals["status"] = rec.Status
				vals["created_by"] = userID
				vals["created_at"] = time.Now().UTC()
				id, err := c.store.Insert(ctx, TableTaxAssessments, vals)
				if err != nil {
					return err
				}
				parentID = id
				rec.ID = id.String()
				return nil
			},
			compensate: func(ctx context.Context) error {
				return c.store.Delete(ctx, TableTaxAssessments, store.Filter{"id": parentID.String()})
			},
		},
	}
	steps = append(steps, c.sideEffectSteps(rec, userID)...)

	if err := runSaga(ctx, c.logger, steps); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Creator) createPayment(ctx context.Context, can *Canonical, userID string) (*Record, error) {
	assessmentRef, _ := can.Detail["assessment_ref"].(string)
	propertyRef, _ := can.Detail["property_ref"].(string)

	var assessmentID, propertyID string
	var err error
	if assessmentRef != "" {
		assessmentID, err = c.findAssessment(ctx, assessmentRef)
		if err != nil {
			return nil, err
		}
	} else {
		propertyID, err = c.findProperty(ctx, propertyRef)
		if err != nil {
			return nil, err
		}
	}

	rec := &Record{
		ReferenceID: newReferenceID(refPrefixPayment),
		EntityType:  EntityTaxPayment,
		Status:      StatusDraft,
		CreatedBy:   userID,
	}

	var parentID uuid.UUID
	steps := []sagaStep{
		{
			name:      "insert tax payment",
			essential: true,
			run: func(ctx context.Context) error {
				vals := cloneValues(can.Detail)
				delete(vals, "assessment_ref")
				delete(vals, "property_ref")
				if assessmentID != "" {
					vals["assessment_id"] = assessmentID
				}
				if propertyID != "" {
					vals["property_id"] = propertyID
				}
				vals["reference_id"] = rec.ReferenceID
				vals["status"] = rec.Status
				vals["created_by"] = userID
				vals["created_at"] = time.Now().UTC()
				id, err := c.store.Insert(ctx, TableTaxPayments, vals)
				if err != nil {
					return err
				}
				parentID = id
				rec.ID = id.String()
				return nil
			},
			compensate: func(ctx context.Context) error {
				return c.store.Delete(ctx, TableTaxPayments, store.Filter{"id": parentID.String()})
			},
		},
	}
	steps = append(steps, c.sideEffectSteps(rec, userID)...)

	if err := runSaga(ctx, c.logger, steps); err != nil {
		return nil, err
	}
	return rec, nil
}

// sideEffectSteps builds the best-effort fan-out steps shared by all entity
// types: activity feed, audit trail, notifications to privileged roles.
func (c *Creator) sideEffectSteps(rec *Record, userID string) []sagaStep {
	var steps []sagaStep
	if c.sinks.Activity != nil {
		steps = append(steps, sagaStep{
			name: "activity log",
			run: func(ctx context.Context) error {
				return c.sinks.Activity.RecordCreated(ctx, rec, userID)
			},
		})
	}
	if c.sinks.Audit != nil {
		steps = append(steps, sagaStep{
			name: "audit log",
			run: func(ctx context.Context) error {
				return c.sinks.Audit.RecordCreated(ctx, rec, userID)
			},
		})
	}
	if c.sinks.Notifications != nil {
		steps = append(steps, sagaStep{
			name: "notification fan-out",
			run: func(ctx context.Context) error {
				return c.sinks.Notifications.RecordCreated(ctx, rec, userID)
			},
		})
	}
	return steps
}

// findCustomer resolves a customer reference (reference id or row id) to a
// customer row id.
func (c *Creator) findCustomer(ctx context.Context, ref string) (string, error) {
	row, err := c.store.QueryOne(ctx, TableCustomers, store.Filter{"reference_id": ref})
	if err != nil {
		if store.KindOf(err) == store.KindNotFound {
			row, err = c.store.QueryOne(ctx, TableCustomers, store.Filter{"id": ref})
		}
		if err != nil {
			return "", fmt.Errorf("referenced customer %q not found", ref)
		}
	}
	return fmt.Sprint(row["id"]), nil
}

// findProperty resolves a property reference (reference id or parcel
// number) to a property row id.
func (c *Creator) findProperty(ctx context.Context, ref string) (string, error) {
	row, err := c.store.QueryOne(ctx, TableProperties, store.Filter{"reference_id": ref})
	if err != nil {
		if store.KindOf(err) == store.KindNotFound {
			row, err = c.store.QueryOne(ctx, TableProperties, store.Filter{"parcel_number": ref})
		}
		if err != nil {
			return "", fmt.Errorf("referenced property %q not found", ref)
		}
	}
	return fmt.Sprint(row["id"]), nil
}

// findAssessment resolves a tax-assessment reference to a row id.
func (c *Creator) findAssessment(ctx context.Context, ref string) (string, error) {
	row, err := c.store.QueryOne(ctx, TableTaxAssessments, store.Filter{"reference_id": ref})
	if err != nil {
		if store.KindOf(err) == store.KindNotFound {
			row, err = c.store.QueryOne(ctx, TableTaxAssessments, store.Filter{"id": ref})
		}
		if err != nil {
			return "", fmt.Errorf("referenced tax assessment %q not found", ref)
		}
	}
	return fmt.Sprint(row["id"]), nil
}

// cloneValues copies a Values map so saga steps never mutate the canonical
// record shared with the caller.
func cloneValues(v store.Values) store.Values {
	out := make(store.Values, len(v)+6)
	for k, val := range v {
		out[k] = val
	}
	return out
}
