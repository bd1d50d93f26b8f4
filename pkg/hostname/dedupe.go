package hostname

import "strings"

// Entry is one observed client after sanitization: a network address and the
// DNS-safe name derived from its display name.
type Entry struct {
	Address string
	Name    string
}

// Dedupe returns entries with pairwise-unique names, preserving input order.
//
// It counts name occurrences across the whole input first, then renames every
// entry whose name collides by appending "-" plus the last segment of its
// address. The full pre-pass keeps the result deterministic regardless of
// input order and handles three-way and larger collisions; it does not guard
// against two colliding addresses sharing the same last segment, which is a
// known limitation.
func Dedupe(entries []Entry) []Entry {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		counts[e.Name]++
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if counts[name] > 1 {
			name = name + "-" + lastSegment(e.Address)
		}
		out = append(out, Entry{Address: e.Address, Name: name})
	}

	return out
}

// lastSegment returns the final dot-delimited segment of an IPv4 literal.
// For other address shapes it falls back to the final colon- or
// dot-delimited segment as a best effort.
func lastSegment(address string) string {
	if i := strings.LastIndexAny(address, ".:"); i >= 0 {
		return address[i+1:]
	}
	return address
}
