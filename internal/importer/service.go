package importer

import (
	"context"
	"log/slog"
	"time"

	"github.com/muniworks/landregistry/internal/metrics"
	"github.com/muniworks/landregistry/internal/store"
)

// service.go is the upload orchestrator: the two-phase validate/commit
// protocol over one batch. Validation is pure in-memory iteration; commit
// runs one record-creation saga at a time, strictly in row order, and a
// single row's failure never aborts the batch.

// Service orchestrates bulk imports.
type Service struct {
	store   store.Store
	creator *Creator
	logger  *slog.Logger
}

// NewService builds the orchestrator with store-backed side-effect sinks.
func NewService(s store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   s,
		creator: NewCreator(s, NewStoreSinks(s), logger),
		logger:  logger,
	}
}

// NewServiceWithCreator injects a custom creator, used by tests to swap
// sinks for recording stubs.
func NewServiceWithCreator(s store.Store, creator *Creator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, creator: creator, logger: logger}
}

// Validate runs type detection and field validation over every row of a
// batch. It never touches the store. The result partitions the batch
// exactly: ValidRecords + InvalidRecords == TotalRecords, and only rows
// with zero errors appear in ValidData.
func (s *Service) Validate(ctx context.Context, batch UploadBatch) (*ValidationResult, error) {
	entity, err := ParseEntityType(string(batch.EntityType))
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{TotalRecords: len(batch.Rows)}

	for i, row := range batch.Rows {
		errs := s.validateRow(entity, row)
		if len(errs) > 0 {
			result.InvalidRecords++
			result.Errors = append(result.Errors, RowErrors{
				Row:    i + 1,
				Errors: errs,
				Data:   row,
			})
			metrics.RowsValidated.WithLabelValues(string(entity), "invalid").Inc()
			continue
		}
		result.ValidRecords++
		result.ValidData = append(result.ValidData, row)
		metrics.RowsValidated.WithLabelValues(string(entity), "valid").Inc()
	}

	result.CanCommit = result.ValidRecords > 0

	s.logger.Info("batch validated",
		"entity_type", entity,
		"total", result.TotalRecords,
		"valid", result.ValidRecords,
		"invalid", result.InvalidRecords,
	)
	return result, nil
}

func (s *Service) validateRow(entity EntityType, row Row) []string {
	switch entity {
	case EntityCustomer:
		return ValidateCustomerRow(DetectSubtype(row), row)
	case EntityProperty:
		return ValidatePropertyRow(row)
	case EntityTaxAssessment:
		return ValidateAssessmentRow(row)
	case EntityTaxPayment:
		return ValidatePaymentRow(row)
	}
	return []string{"unsupported entity type"}
}

// Commit transforms and creates every submitted row, strictly sequentially.
// Per-row creation failures are recorded and processing continues; only an
// empty committable set or an unreachable store aborts the request.
// Successful + Failed always equals len(rows).
func (s *Service) Commit(ctx context.Context, entity EntityType, rows []Row, userID string) (*CommitResult, error) {
	entity, err := ParseEntityType(string(entity))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoValidRecords
	}

	start := time.Now()
	result := &CommitResult{}

	for i, row := range rows {
		rec, err := s.commitRow(ctx, entity, row, userID)
		if err != nil {
			if isFatalStoreError(err) {
				return nil, &Error{Status: 503, Code: "IMP004",
					Message: "the database is unavailable: " + err.Error()}
			}
			result.Failed++
			result.Errors = append(result.Errors, CommitError{
				Row:   i + 1,
				Error: mapStoreError(err),
				Data:  row,
			})
			metrics.RowsCommitted.WithLabelValues(string(entity), "failed").Inc()
			s.logger.Warn("row commit failed",
				"entity_type", entity,
				"row", i+1,
				"error", err.Error(),
			)
			continue
		}
		result.Successful++
		metrics.RowsCommitted.WithLabelValues(string(entity), "created").Inc()
		s.logger.Debug("row committed",
			"entity_type", entity,
			"row", i+1,
			"reference_id", rec.ReferenceID,
		)
	}

	metrics.CommitDuration.WithLabelValues(string(entity)).Observe(time.Since(start).Seconds())
	s.logger.Info("batch committed",
		"entity_type", entity,
		"successful", result.Successful,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (s *Service) commitRow(ctx context.Context, entity EntityType, row Row, userID string) (*Record, error) {
	var can *Canonical
	switch entity {
	case EntityCustomer:
		can = TransformCustomer(DetectSubtype(row), row)
	case EntityProperty:
		can = TransformProperty(row)
	case EntityTaxAssessment:
		can = TransformAssessment(row)
	case EntityTaxPayment:
		can = TransformPayment(row)
	}
	return s.creator.Create(ctx, entity, can, userID)
}
