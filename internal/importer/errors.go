package importer

import (
	"github.com/muniworks/landregistry/internal/store"
)

// Error is a request-level application error carrying an HTTP status.
// Row-level problems never use this type; they travel as plain strings in
// ValidationResult / CommitResult.
type Error struct {
	Status  int    // HTTP status the web layer should respond with
	Code    string // stable machine-readable code for support reference
	Message string
}

func (e *Error) Error() string { return e.Message }

// ErrNoValidRecords is returned by Commit when the committable set is empty.
var ErrNoValidRecords = &Error{Status: 400, Code: "IMP003",
	Message: "no valid records to commit"}

// mapStoreError translates a typed store failure into the operator-facing
// message recorded against a failed row. Unknown errors pass through
// verbatim so the underlying store message is never lost.
func mapStoreError(err error) string {
	se, ok := store.AsError(err)
	if !ok {
		return err.Error()
	}
	switch se.Kind {
	case store.KindDuplicate:
		return "a record with these values already exists (" + se.Table + ")"
	case store.KindForeignKey:
		return "a referenced record does not exist (" + se.Table + ")"
	case store.KindConstraint:
		return "the record violates a database constraint (" + se.Table + ")"
	case store.KindNotFound:
		return "referenced record not found (" + se.Table + ")"
	case store.KindUnavailable:
		return "the database is unavailable, try again shortly"
	}
	return err.Error()
}

// isFatalStoreError reports whether a store failure should abort the whole
// request instead of being recorded against one row.
func isFatalStoreError(err error) bool {
	return store.KindOf(err) == store.KindUnavailable
}
