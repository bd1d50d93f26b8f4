package syncer

import "context"

// Session is an opaque handle to an authenticated record-store session.
// The core threads it through store calls without inspecting it; only the
// store implementation knows its shape.
type Session any

// InventorySource lists the currently-active network clients. A source that
// cannot reach its backend may return an error; the orchestrator treats that
// as "nothing to sync," not a run failure.
type InventorySource interface {
	ListActiveEntries(ctx context.Context) ([]ObservedEntry, error)
}

// RecordStore is the DNS host-record backend kept in sync.
//
// Authenticate failures are fatal for a run. ListRecords failures degrade to
// an empty current state, which is safe because UpsertRecord is an idempotent
// create-or-overwrite keyed by name. UpsertRecord receives a name that is
// already sanitized; the store appends its configured domain.
type RecordStore interface {
	Authenticate(ctx context.Context) (Session, error)
	ListRecords(ctx context.Context, session Session) (map[string]string, error)
	UpsertRecord(ctx context.Context, session Session, name, address string) error
}
