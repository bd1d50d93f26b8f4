package pihole

import "strings"

// ParseHosts tokenizes Pi-hole host lines of the shape "address name" into
// an fqdn -> address map and reports how many lines were skipped.
//
// Lines with fewer than two whitespace-separated fields are skipped rather
// than failing the whole fetch; extra fields (hosts-file aliases) are
// ignored. When the store holds duplicate names the last line wins.
func ParseHosts(lines []string) (map[string]string, int) {
	existing := make(map[string]string, len(lines))
	skipped := 0

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			skipped++
			continue
		}
		address, fqdn := fields[0], fields[1]
		existing[fqdn] = address
	}

	return existing, skipped
}
