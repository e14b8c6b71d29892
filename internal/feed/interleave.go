package feed

import "matchfeed-engine/internal/domain"

// Mix describes how sources interleave in the final feed. Ratio-governed
// sources emit Ratio[src] profiles per round-robin cycle in Order; Rest
// partitions are appended once the governed ones are exhausted.
type Mix struct {
	Ratio map[domain.Source]int
	Order []domain.Source
	Rest  []domain.Source
}

// Interleave partitions by source tag, preserves each partition's internal
// order, and emits round-robin per the mix. Every input profile appears in
// the output exactly once; sources the mix doesn't name are appended last.
func Interleave(profiles []domain.Profile, mix Mix) []domain.Profile {
	partitions := make(map[domain.Source][]domain.Profile)
	var tags []domain.Source
	for _, p := range profiles {
		if _, ok := partitions[p.Source]; !ok {
			tags = append(tags, p.Source)
		}
		partitions[p.Source] = append(partitions[p.Source], p)
	}

	out := make([]domain.Profile, 0, len(profiles))

	// Round-robin over the ratio-governed partitions.
	for {
		emitted := false
		for _, src := range mix.Order {
			n := mix.Ratio[src]
			part := partitions[src]
			for i := 0; i < n && len(part) > 0; i++ {
				out = append(out, part[0])
				part = part[1:]
				emitted = true
			}
			partitions[src] = part
		}
		if !emitted {
			break
		}
	}

	// Unconstrained partitions, in declared order.
	for _, src := range mix.Rest {
		out = append(out, partitions[src]...)
		partitions[src] = nil
	}

	// Anything the mix never mentioned still belongs in the feed.
	for _, src := range tags {
		if len(partitions[src]) > 0 {
			out = append(out, partitions[src]...)
			partitions[src] = nil
		}
	}

	return out
}
