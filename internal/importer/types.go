package importer

import (
	"fmt"
	"strings"
)

// Row is one raw spreadsheet-derived record as submitted by the client.
// Keys are whatever the spreadsheet headers happened to be; the column
// resolver maps them onto canonical fields.
type Row map[string]any

// EntityType identifies which kind of record a batch carries.
type EntityType string

const (
	EntityCustomer      EntityType = "customer"
	EntityProperty      EntityType = "property"
	EntityTaxAssessment EntityType = "tax_assessment"
	EntityTaxPayment    EntityType = "tax_payment"
)

// ParseEntityType normalizes an API entity-type string. The public API uses
// "tax" for tax assessments; the explicit forms are accepted as well.
func ParseEntityType(s string) (EntityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "customers":
		return EntityCustomer, nil
	case "property", "properties":
		return EntityProperty, nil
	case "tax", "tax_assessment":
		return EntityTaxAssessment, nil
	case "tax_payment":
		return EntityTaxPayment, nil
	}
	return "", &Error{Status: 400, Code: "IMP001",
		Message: fmt.Sprintf("unknown entity type %q (expected customer, property, or tax)", s)}
}

// CustomerSubtype is the closed set of customer record kinds. Each subtype
// has its own required-field roster and its own detail table.
type CustomerSubtype string

const (
	SubtypePerson         CustomerSubtype = "PERSON"
	SubtypeBusiness       CustomerSubtype = "BUSINESS"
	SubtypeGovernment     CustomerSubtype = "GOVERNMENT"
	SubtypeMosqueHospital CustomerSubtype = "MOSQUE_HOSPITAL"
	SubtypeNonProfit      CustomerSubtype = "NON_PROFIT"
	SubtypeResidential    CustomerSubtype = "RESIDENTIAL"
	SubtypeRental         CustomerSubtype = "RENTAL"
)

// ParseSubtype validates a customer subtype supplied as a query or body
// parameter. An empty string defaults to PERSON.
func ParseSubtype(s string) (CustomerSubtype, error) {
	if strings.TrimSpace(s) == "" {
		return SubtypePerson, nil
	}
	st := CustomerSubtype(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case SubtypePerson, SubtypeBusiness, SubtypeGovernment, SubtypeMosqueHospital,
		SubtypeNonProfit, SubtypeResidential, SubtypeRental:
		return st, nil
	}
	return "", &Error{Status: 400, Code: "IMP002",
		Message: fmt.Sprintf("unknown customer type %q", s)}
}

// Status values for newly created records. The import pipeline only ever
// creates DRAFT records; the approval workflow owns later transitions.
const StatusDraft = "DRAFT"

// Table names written by the record creator.
const (
	TableCustomers          = "customers"
	TableProperties         = "properties"
	TablePropertyBoundaries = "property_boundaries"
	TablePropertyOwnership  = "property_ownership"
	TableTaxAssessments     = "tax_assessments"
	TableTaxPayments        = "tax_payments"
	TableNotifications      = "notifications"
	TableAuditLogs          = "audit_logs"
	TableActivityLogs       = "activity_logs"
)

// DetailTable returns the detail table for a customer subtype.
func DetailTable(st CustomerSubtype) string {
	switch st {
	case SubtypePerson:
		return "customer_person"
	case SubtypeBusiness:
		return "customer_business"
	case SubtypeGovernment:
		return "customer_government"
	case SubtypeMosqueHospital:
		return "customer_mosque_hospital"
	case SubtypeNonProfit:
		return "customer_non_profit"
	case SubtypeResidential:
		return "customer_residential"
	case SubtypeRental:
		return "customer_rental"
	}
	return ""
}

// UploadBatch is one bulk-upload request. It lives only for the request;
// nothing about a batch is persisted.
type UploadBatch struct {
	EntityType EntityType
	Rows       []Row
	UserID     string
}

// RowErrors collects the validation failures for a single row.
type RowErrors struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
	Data   Row      `json:"data"`
}

// ValidationResult is the outcome of the validate phase for a batch.
// ValidRecords + InvalidRecords always equals TotalRecords, and every row in
// ValidData produced zero error messages.
type ValidationResult struct {
	TotalRecords   int         `json:"totalRecords"`
	ValidRecords   int         `json:"validRecords"`
	InvalidRecords int         `json:"invalidRecords"`
	Errors         []RowErrors `json:"errors"`
	CanCommit      bool        `json:"canCommit"`
	ValidData      []Row       `json:"validData"`
}

// CommitError records one row that failed during the commit phase.
type CommitError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
	Data  Row    `json:"data"`
}

// CommitResult is the outcome of the commit phase.
// Successful + Failed always equals the number of submitted rows.
type CommitResult struct {
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Errors     []CommitError `json:"errors"`
}

// Record is a created parent entity row.
type Record struct {
	ID          string
	ReferenceID string
	EntityType  EntityType
	Subtype     CustomerSubtype // customers only
	Status      string
	CreatedBy   string
}
