package importer

import (
	"context"
	"time"

	"github.com/muniworks/landregistry/internal/store"
)

// sinks.go defines the best-effort side-effect collaborators the creator
// fans out to after a successful creation. Sink failures are logged by the
// saga and never fail the record; tests observe outcomes through stub
// implementations rather than log scraping.

// NotificationSink delivers a created-record notification to privileged
// reviewer roles.
type NotificationSink interface {
	RecordCreated(ctx context.Context, rec *Record, userID string) error
}

// AuditSink records an immutable audit trail entry for a creation.
type AuditSink interface {
	RecordCreated(ctx context.Context, rec *Record, userID string) error
}

// ActivitySink records a user-facing activity feed entry.
type ActivitySink interface {
	RecordCreated(ctx context.Context, rec *Record, userID string) error
}

// Sinks bundles the side-effect collaborators. Any field may be nil, in
// which case that side effect is skipped.
type Sinks struct {
	Notifications NotificationSink
	Audit         AuditSink
	Activity      ActivitySink
}

// notifyRoles are the privileged roles fanned out to on record creation.
var notifyRoles = []string{"ADMINISTRATOR", "SUPERVISOR"}

// NewStoreSinks builds a Sinks bundle with all three sinks backed by the
// persistence store.
func NewStoreSinks(s store.Store) Sinks {
	return Sinks{
		Notifications: &storeNotificationSink{s},
		Audit:         &storeAuditSink{s},
		Activity:      &storeActivitySink{s},
	}
}

type storeNotificationSink struct{ store store.Store }

func (s *storeNotificationSink) RecordCreated(ctx context.Context, rec *Record, userID string) error {
	for _, role := range notifyRoles {
		_, err := s.store.Insert(ctx, TableNotifications, store.Values{
			"role":         role,
			"kind":         "RECORD_CREATED",
			"entity_type":  string(rec.EntityType),
			"reference_id": rec.ReferenceID,
			"created_by":   userID,
			"created_at":   time.Now().UTC(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

type storeAuditSink struct{ store store.Store }

func (s *storeAuditSink) RecordCreated(ctx context.Context, rec *Record, userID string) error {
	_, err := s.store.Insert(ctx, TableAuditLogs, store.Values{
		"action":       "CREATE",
		"entity_type":  string(rec.EntityType),
		"entity_id":    rec.ID,
		"reference_id": rec.ReferenceID,
		"actor":        userID,
		"created_at":   time.Now().UTC(),
	})
	return err
}

type storeActivitySink struct{ store store.Store }

func (s *storeActivitySink) RecordCreated(ctx context.Context, rec *Record, userID string) error {
	_, err := s.store.Insert(ctx, TableActivityLogs, store.Values{
		"user_id":      userID,
		"description":  "imported " + string(rec.EntityType) + " " + rec.ReferenceID,
		"entity_type":  string(rec.EntityType),
		"reference_id": rec.ReferenceID,
		"created_at":   time.Now().UTC(),
	})
	return err
}
