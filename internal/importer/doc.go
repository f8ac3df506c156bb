// Package importer implements the bulk import pipeline for land-registry
// records: customers (seven subtypes), properties, tax assessments, and tax
// payments.
//
// The pipeline has two phases. Validate classifies each raw spreadsheet row
// (customer rows run through subtype detection first), resolves columns
// through a shared alias table, and collects human-readable errors per row
// without touching the store. Commit transforms each valid row into its
// canonical detail shape and creates it through an ordered multi-table write
// with compensating deletes on partial failure, continuing past per-row
// errors so one bad row never aborts the batch.
package importer
