// Package syncer implements the DHCP-to-DNS reconciliation core: it turns
// observed clients into a deduplicated, DNS-safe desired-state set, diffs it
// against the record store's current state, and applies a minimal set of
// idempotent upserts with per-record outcome accounting.
package syncer

// ObservedEntry is one client reported by the inventory source: a textual
// network address and the device's raw display name. Both fields are
// non-empty; the source omits incomplete clients.
type ObservedEntry struct {
	Address string
	RawName string
}

// DesiredRecord is the target state for one name: FQDN = name + "." + domain.
type DesiredRecord struct {
	FQDN    string `yaml:"fqdn"`
	Address string `yaml:"address"`
}

// Action is the mutation the reconciler decides for a desired record.
type Action int

const (
	// ActionNoOp means the store already matches the desired record.
	ActionNoOp Action = iota
	// ActionUpsert means the record must be created or overwritten.
	ActionUpsert
)

// Outcome is the reporting label for one record's sync result.
type Outcome string

// Sync outcomes. Added and Updated share the same upsert mutation path; the
// distinction is purely presence-in-current at reconcile time.
const (
	OutcomeAdded   Outcome = "added"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Summary holds the per-run outcome counters.
type Summary struct {
	Added   int `yaml:"added"`
	Updated int `yaml:"updated"`
	Skipped int `yaml:"skipped"`
	Failed  int `yaml:"failed"`
}

// Success reports overall run success: no record-level failures.
func (s Summary) Success() bool {
	return s.Failed == 0
}

// Total returns the number of records accounted for.
func (s Summary) Total() int {
	return s.Added + s.Updated + s.Skipped + s.Failed
}

// record tallies an outcome into the matching counter.
func (s *Summary) record(o Outcome) {
	switch o {
	case OutcomeAdded:
		s.Added++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}
