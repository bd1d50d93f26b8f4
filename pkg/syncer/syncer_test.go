package syncer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkngrm/unipisync/pkg/errors"
	"github.com/mkngrm/unipisync/pkg/syncer"
)

// fakeSource is an InventorySource returning a fixed client list.
type fakeSource struct {
	entries []syncer.ObservedEntry
	err     error
}

func (f *fakeSource) ListActiveEntries(_ context.Context) ([]syncer.ObservedEntry, error) {
	return f.entries, f.err
}

// fakeStore is a RecordStore backed by a map, recording every mutation.
type fakeStore struct {
	authErr error
	listErr error

	records map[string]string // fqdn -> address
	domain  string

	upserts []string // "name addr" in call order
	failOn  map[string]error
}

type fakeSession struct{ sid string }

func newFakeStore(domain string) *fakeStore {
	return &fakeStore{
		records: map[string]string{},
		domain:  domain,
		failOn:  map[string]error{},
	}
}

func (f *fakeStore) Authenticate(_ context.Context) (syncer.Session, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return &fakeSession{sid: "s-1"}, nil
}

func (f *fakeStore) ListRecords(_ context.Context, session syncer.Session) (map[string]string, error) {
	if _, ok := session.(*fakeSession); !ok {
		return nil, errors.New("session not threaded through")
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(map[string]string, len(f.records))
	for k, v := range f.records {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) UpsertRecord(_ context.Context, session syncer.Session, name, address string) error {
	if _, ok := session.(*fakeSession); !ok {
		return errors.New("session not threaded through")
	}
	if err := f.failOn[name]; err != nil {
		return err
	}
	f.upserts = append(f.upserts, name+" "+address)
	f.records[name+"."+f.domain] = address
	return nil
}

func TestRunAddsNewRecords(t *testing.T) {
	source := &fakeSource{entries: []syncer.ObservedEntry{
		{Address: "10.0.0.5", RawName: "Printer"},
		{Address: "10.0.0.8", RawName: "NAS"},
	}}
	store := newFakeStore("home.lan")

	s, err := syncer.New(source, store, "home.lan")
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Added)
	assert.Equal(t, 0, result.Summary.Failed)
	assert.True(t, result.Success())
	assert.Equal(t, []string{"printer 10.0.0.5", "nas 10.0.0.8"}, store.upserts)
	assert.Equal(t, "10.0.0.5", store.records["printer.home.lan"])
}

func TestRunIsIdempotent(t *testing.T) {
	source := &fakeSource{entries: []syncer.ObservedEntry{
		{Address: "10.0.0.5", RawName: "Printer"},
	}}
	store := newFakeStore("home.lan")

	s, err := syncer.New(source, store, "home.lan")
	require.NoError(t, err)

	first, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Summary.Added)

	second, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Summary.Added)
	assert.Equal(t, 1, second.Summary.Skipped)
	assert.Len(t, store.upserts, 1, "second run must not write again")
}

func TestRunUpdatesChangedAddress(t *testing.T) {
	source := &fakeSource{entries: []syncer.ObservedEntry{
		{Address: "10.0.0.7", RawName: "printer"},
	}}
	store := newFakeStore("home.lan")
	store.records["printer.home.lan"] = "10.0.0.5"

	s, err := syncer.New(source, store, "home.lan")
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summary.Updated)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "10.0.0.5", result.Records[0].Previous)
	assert.Equal(t, "10.0.0.7", store.records["printer.home.lan"])
}

func TestRunEmptySourceIsSuccess(t *testing.T) {
	for name, source := range map[string]*fakeSource{
		"empty list":  {entries: nil},
		"fetch error": {err: errors.New("controller unreachable")},
	} {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore("home.lan")
			s, err := syncer.New(source, store, "home.lan")
			require.NoError(t, err)

			result, err := s.Run(context.Background())
			require.NoError(t, err)
			assert.True(t, result.Success())
			assert.Equal(t, 0, result.Summary.Total())
			assert.Empty(t, store.upserts, "nothing must be applied")
		})
	}
}

func TestRunAuthFailureIsFatal(t *testing.T) {
	source := &fakeSource{entries: []syncer.ObservedEntry{
		{Address: "10.0.0.5", RawName: "printer"},
	}}
	store := newFakeStore("home.lan")
	store.authErr = &errors.AuthenticationError{Endpoint: "pihole", Message: "bad password"}

	s, err := syncer.New(source, store, "home.lan")
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAuthFailed(err))
	assert.Nil(t, result)
	assert.Empty(t, store.upserts, "no mutation may be attempted after auth failure")
}

func TestRunListFailureDegradesToAdds(t *testing.T) {
	source := &fakeSource{entries: []syncer.ObservedEntry{
		{Address: "10.0.0.5", RawName: "printer"},
	}}
	store := newFakeStore("home.lan")
	store.records["printer.home.lan"] = "10.0.0.5" // store is in sync already
	store.listErr = errors.New("read failed")

	s, err := syncer.New(source, store, "home.lan")
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	// Current state was unreadable, so the record degrades to Added via
	// the idempotent upsert rather than Skipped.
	assert.Equal(t, 1, result.Summary.Added)
	assert.True(t, result.Success())
}

func TestRunPartialFailureIsolation(t *testing.T) {
	source := &fakeSource{entries: []syncer.ObservedEntry{
		{Address: "10.0.0.1", RawName: "one"},
		{Address: "10.0.0.2", RawName: "two"},
		{Address: "10.0.0.3", RawName: "three"},
	}}
	store := newFakeStore("home.lan")
	store.failOn["two"] = errors.NewAPIError("pihole", 500, "boom")

	s, err := syncer.New(source, store, "home.lan")
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Added)
	assert.Equal(t, 1, result.Summary.Failed)
	assert.False(t, result.Success())
	assert.Equal(t, []string{"one 10.0.0.1", "three 10.0.0.3"}, store.upserts)

	var failed *syncer.RecordResult
	for i := range result.Records {
		if result.Records[i].Outcome == syncer.OutcomeFailed {
			failed = &result.Records[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "two.home.lan", failed.FQDN)
	assert.Contains(t, failed.Error, "boom")
}

func TestRunDryRunNeverWrites(t *testing.T) {
	entries := []syncer.ObservedEntry{
		{Address: "10.0.0.5", RawName: "printer"},
		{Address: "10.0.0.7", RawName: "nas"},
		{Address: "10.0.0.9", RawName: "camera"},
	}
	current := map[string]string{
		"nas.home.lan":    "10.0.0.7", // unchanged -> skip
		"camera.home.lan": "10.0.0.1", // changed -> update
	}

	dryStore := newFakeStore("home.lan")
	for k, v := range current {
		dryStore.records[k] = v
	}
	s, err := syncer.New(&fakeSource{entries: entries}, dryStore, "home.lan")
	require.NoError(t, err)

	dry, err := s.Run(context.Background(), syncer.WithDryRun(true))
	require.NoError(t, err)
	assert.Empty(t, dryStore.upserts, "dry run must not call the store's write operation")

	// A real run over identical data reports identical counts.
	realStore := newFakeStore("home.lan")
	for k, v := range current {
		realStore.records[k] = v
	}
	s, err = syncer.New(&fakeSource{entries: entries}, realStore, "home.lan")
	require.NoError(t, err)

	live, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, live.Summary, dry.Summary)
}

func TestRunEndToEndCollision(t *testing.T) {
	source := &fakeSource{entries: []syncer.ObservedEntry{
		{Address: "1.2.3.4", RawName: "Kid's Laptop"},
		{Address: "1.2.3.5", RawName: "kids-laptop"},
	}}
	store := newFakeStore("home.lan")

	s, err := syncer.New(source, store, "home.lan")
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Added)
	assert.Equal(t, "1.2.3.4", store.records["kids-laptop-4.home.lan"])
	assert.Equal(t, "1.2.3.5", store.records["kids-laptop-5.home.lan"])
}

func TestRunDropsEmptySanitizedNames(t *testing.T) {
	source := &fakeSource{entries: []syncer.ObservedEntry{
		{Address: "10.0.0.5", RawName: "!!!"},
		{Address: "10.0.0.6", RawName: "printer"},
	}}
	store := newFakeStore("home.lan")

	s, err := syncer.New(source, store, "home.lan")
	require.NoError(t, err)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summary.Added)
	assert.Equal(t, []string{"printer 10.0.0.6"}, store.upserts)
}

func TestNewValidatesInputs(t *testing.T) {
	store := newFakeStore("home.lan")
	source := &fakeSource{}

	_, err := syncer.New(nil, store, "home.lan")
	assert.True(t, errors.IsValidationError(err))

	_, err = syncer.New(source, nil, "home.lan")
	assert.True(t, errors.IsValidationError(err))

	_, err = syncer.New(source, store, "")
	assert.True(t, errors.IsValidationError(err))
}
