package cache

import (
	"fmt"
	"sort"
	"strings"
)

// CoordKey rounds to 4 decimal places (~11 m) so nearby lookups share a
// cache entry.
func CoordKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}

// Fingerprint builds an order-independent signature of a skill query:
// lowercased, deduplicated, sorted, joined. It keys both the job-ad cache
// and the pagination-reset check.
func Fingerprint(skills []string) string {
	seen := map[string]bool{}
	var names []string
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		names = append(names, s)
	}
	sort.Strings(names)
	return strings.Join(names, "+")
}
