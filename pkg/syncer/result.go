package syncer

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/mkngrm/unipisync/pkg/errors"
)

// RecordResult is the outcome of one desired record's sync.
type RecordResult struct {
	FQDN    string  `yaml:"fqdn"`
	Address string  `yaml:"address"`
	Outcome Outcome `yaml:"outcome"`
	// Previous is the address the store held before an update, empty for
	// adds and skips of new records.
	Previous string `yaml:"previous,omitempty"`
	// Error carries the diagnostic text for a failed upsert.
	Error string `yaml:"error,omitempty"`
}

// Result is the full report of one sync run. It exists only for the run's
// duration; the store itself is the only durable state.
type Result struct {
	Domain  string         `yaml:"domain"`
	DryRun  bool           `yaml:"dry_run"`
	Summary Summary        `yaml:"summary"`
	Records []RecordResult `yaml:"records,omitempty"`
}

// Success reports whether the run completed without record-level failures.
func (r *Result) Success() bool {
	return r.Summary.Success()
}

// HasChanges reports whether any record was (or would be) added or updated.
func (r *Result) HasChanges() bool {
	return r.Summary.Added > 0 || r.Summary.Updated > 0
}

// Applied returns the records this run added or updated (or would have, in
// dry-run mode). Used by post-sync verification.
func (r *Result) Applied() []RecordResult {
	var out []RecordResult
	for _, rec := range r.Records {
		if rec.Outcome == OutcomeAdded || rec.Outcome == OutcomeUpdated {
			out = append(out, rec)
		}
	}
	return out
}

// WriteYAML serializes the result as a YAML report.
func (r *Result) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.WrapParse("yaml", "sync report", err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.WrapIO("write", "sync report", err)
	}
	return nil
}
