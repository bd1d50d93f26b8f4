// Package hostname normalizes device display names into DNS-safe host labels
// and disambiguates names that collide within a single sync cycle.
package hostname

import "strings"

// Sanitize converts a raw display name into a DNS-label-safe token:
// lowercase, spaces replaced with hyphens, apostrophes stripped, and every
// remaining character outside [a-z0-9-.] removed.
//
// Sanitize never fails. An input with no valid characters sanitizes to the
// empty string; callers filter empties before syncing.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range strings.ToLower(raw) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '\'' || r == '’':
			// Apostrophes vanish rather than becoming hyphens, so
			// "Bob's Phone" sanitizes to "bobs-phone".
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		}
	}

	return b.String()
}
