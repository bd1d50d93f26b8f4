package syncer

import (
	"context"
	"strings"

	"github.com/mkngrm/unipisync/pkg/errors"
	"github.com/mkngrm/unipisync/pkg/hostname"
	"github.com/mkngrm/unipisync/pkg/logging"
)

// Syncer orchestrates one reconciliation run: fetch observed clients,
// normalize, fetch current store state, reconcile, apply, summarize.
// A Syncer holds no cross-run state; every Run starts from scratch.
type Syncer struct {
	source InventorySource
	store  RecordStore
	domain string
}

// New creates a Syncer for the given source, store, and DNS domain suffix.
func New(source InventorySource, store RecordStore, domain string) (*Syncer, error) {
	if source == nil {
		return nil, &errors.ValidationError{Field: "source", Message: "inventory source is required"}
	}
	if store == nil {
		return nil, &errors.ValidationError{Field: "store", Message: "record store is required"}
	}
	if domain == "" {
		return nil, &errors.ValidationError{Field: "domain", Message: "DNS domain is required"}
	}

	return &Syncer{
		source: source,
		store:  store,
		domain: domain,
	}, nil
}

// Run executes one sync cycle and returns its result. Only a record-store
// authentication failure returns an error; every other remote failure
// degrades gracefully and shows up in the result's counters instead.
func (s *Syncer) Run(ctx context.Context, opts ...Option) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	options := Defaults().Apply(opts...)

	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	log := logging.Ctx(ctx)
	result := &Result{Domain: s.domain, DryRun: options.DryRun}

	// Step 1: fetch observed clients. Empty or failed fetch means there is
	// nothing to sync, which is not an error.
	observed, err := s.source.ListActiveEntries(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch active clients, nothing to sync")
		return result, nil
	}
	if len(observed) == 0 {
		log.Warn().Msg("No active clients found - nothing to sync")
		return result, nil
	}
	log.Info().Int("clients", len(observed)).Msg("Fetched active clients")

	// Step 2: normalize names into a deduplicated desired set.
	desired := s.normalize(ctx, observed)
	if len(desired) == 0 {
		log.Warn().Msg("No usable client names after sanitization - nothing to sync")
		return result, nil
	}

	// Step 3: authenticate to the record store. Fatal on failure: nothing
	// has been applied yet, so aborting leaves the store untouched.
	session, err := s.store.Authenticate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Aborting sync - record store authentication failed")
		return nil, err
	}

	// Step 4: fetch current state. A failed fetch degrades to an empty
	// map; every record then lands on the idempotent upsert path.
	current, err := s.store.ListRecords(ctx, session)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch existing records, treating store as empty")
		current = map[string]string{}
	} else {
		log.Info().Int("records", len(current)).Msg("Retrieved existing DNS records")
	}

	// Steps 5-6: reconcile and apply in deterministic input order.
	for _, decision := range Reconcile(desired, current) {
		rec := s.apply(ctx, session, decision, options.DryRun)
		result.Summary.record(rec.Outcome)
		result.Records = append(result.Records, rec)
	}

	log.Info().
		Int("added", result.Summary.Added).
		Int("updated", result.Summary.Updated).
		Int("skipped", result.Summary.Skipped).
		Int("failed", result.Summary.Failed).
		Msg("Sync complete")

	return result, nil
}

// normalize sanitizes raw names, drops entries that sanitize to nothing, and
// renames collisions, producing the desired record set in input order.
func (s *Syncer) normalize(ctx context.Context, observed []ObservedEntry) []DesiredRecord {
	log := logging.Ctx(ctx)

	entries := make([]hostname.Entry, 0, len(observed))
	for _, o := range observed {
		name := hostname.Sanitize(o.RawName)
		if name == "" {
			log.Warn().
				Str("raw_name", o.RawName).
				Str("address", o.Address).
				Msg("Skipping client whose name sanitized to nothing")
			continue
		}
		entries = append(entries, hostname.Entry{Address: o.Address, Name: name})
	}

	entries = hostname.Dedupe(entries)

	desired := make([]DesiredRecord, 0, len(entries))
	for _, e := range entries {
		desired = append(desired, DesiredRecord{
			FQDN:    e.Name + "." + s.domain,
			Address: e.Address,
		})
	}
	return desired
}

// apply executes (or, in dry-run mode, only reports) a single decision.
// A failed upsert is isolated to its record: it is counted and the run
// moves on.
func (s *Syncer) apply(ctx context.Context, session Session, d Decision, dryRun bool) RecordResult {
	log := logging.Ctx(ctx)
	rec := RecordResult{
		FQDN:     d.Record.FQDN,
		Address:  d.Record.Address,
		Previous: d.Previous,
		Outcome:  d.Outcome,
	}

	if d.Action == ActionNoOp {
		log.Debug().Msgf("Skipped %s -> %s (up to date)", d.Record.FQDN, d.Record.Address)
		return rec
	}

	if dryRun {
		switch d.Outcome {
		case OutcomeUpdated:
			log.Info().Msgf("[DRY RUN] Would update %s: %s -> %s", d.Record.FQDN, d.Previous, d.Record.Address)
		default:
			log.Info().Msgf("[DRY RUN] Would add %s -> %s", d.Record.FQDN, d.Record.Address)
		}
		return rec
	}

	name := strings.TrimSuffix(d.Record.FQDN, "."+s.domain)
	if err := s.store.UpsertRecord(ctx, session, name, d.Record.Address); err != nil {
		log.Error().Err(err).Msgf("Failed to upsert %s -> %s", d.Record.FQDN, d.Record.Address)
		rec.Outcome = OutcomeFailed
		rec.Error = err.Error()
		return rec
	}

	switch d.Outcome {
	case OutcomeUpdated:
		log.Info().Msgf("Updated %s: %s -> %s", d.Record.FQDN, d.Previous, d.Record.Address)
	default:
		log.Info().Msgf("Added %s -> %s", d.Record.FQDN, d.Record.Address)
	}
	return rec
}
