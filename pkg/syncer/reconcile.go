package syncer

// Decision is the reconciler's verdict for one desired record.
type Decision struct {
	Record DesiredRecord
	Action Action
	// Outcome is the label a successful apply will be reported under:
	// Added when the FQDN is absent from current state, Updated when
	// present with a different address, Skipped for a NoOp.
	Outcome Outcome
	// Previous is the address currently stored for the FQDN, empty when
	// the record is new.
	Previous string
}

// Reconcile computes the per-record decisions for the desired set against
// current store state, preserving desired order. Records present only in
// current are never touched; deletion is out of scope.
func Reconcile(desired []DesiredRecord, current map[string]string) []Decision {
	decisions := make([]Decision, 0, len(desired))

	for _, d := range desired {
		existing, found := current[d.FQDN]
		switch {
		case !found:
			decisions = append(decisions, Decision{
				Record:  d,
				Action:  ActionUpsert,
				Outcome: OutcomeAdded,
			})
		case existing == d.Address:
			decisions = append(decisions, Decision{
				Record:   d,
				Action:   ActionNoOp,
				Outcome:  OutcomeSkipped,
				Previous: existing,
			})
		default:
			decisions = append(decisions, Decision{
				Record:   d,
				Action:   ActionUpsert,
				Outcome:  OutcomeUpdated,
				Previous: existing,
			})
		}
	}

	return decisions
}
