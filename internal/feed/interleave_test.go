package feed

import (
	"testing"

	"matchfeed-engine/internal/domain"
)

func mkProfile(id string, src domain.Source) domain.Profile {
	return domain.Profile{ID: id, Source: src}
}

func ids(profiles []domain.Profile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.ID
	}
	return out
}

func assertOrder(t *testing.T, got []domain.Profile, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("got %v, want %v", ids(got), want)
		}
	}
}

func seekerMix(jobAds, business int) Mix {
	return Mix{
		Ratio: map[domain.Source]int{
			domain.SourceJobAd:    jobAds,
			domain.SourceBusiness: business,
		},
		Order: []domain.Source{domain.SourceJobAd, domain.SourceBusiness},
		Rest:  []domain.Source{domain.SourceSeeker},
	}
}

func TestInterleaveRatio(t *testing.T) {
	in := []domain.Profile{
		mkProfile("j1", domain.SourceJobAd),
		mkProfile("j2", domain.SourceJobAd),
		mkProfile("j3", domain.SourceJobAd),
		mkProfile("j4", domain.SourceJobAd),
		mkProfile("j5", domain.SourceJobAd),
		mkProfile("b1", domain.SourceBusiness),
		mkProfile("b2", domain.SourceBusiness),
		mkProfile("b3", domain.SourceBusiness),
	}

	out := Interleave(in, seekerMix(2, 1))
	assertOrder(t, out, "j1", "j2", "b1", "j3", "j4", "b2", "j5", "b3")
}

func TestInterleavePreservesPartitionOrder(t *testing.T) {
	in := []domain.Profile{
		mkProfile("b1", domain.SourceBusiness),
		mkProfile("j1", domain.SourceJobAd),
		mkProfile("b2", domain.SourceBusiness),
		mkProfile("j2", domain.SourceJobAd),
	}
	out := Interleave(in, seekerMix(1, 1))
	assertOrder(t, out, "j1", "b1", "j2", "b2")
}

func TestInterleaveRestAppended(t *testing.T) {
	in := []domain.Profile{
		mkProfile("s1", domain.SourceSeeker),
		mkProfile("j1", domain.SourceJobAd),
		mkProfile("s2", domain.SourceSeeker),
	}
	out := Interleave(in, seekerMix(2, 1))
	assertOrder(t, out, "j1", "s1", "s2")
}

func TestInterleaveConservation(t *testing.T) {
	// Includes a source the mix never names.
	in := []domain.Profile{
		mkProfile("j1", domain.SourceJobAd),
		mkProfile("x1", domain.Source("other")),
		mkProfile("b1", domain.SourceBusiness),
		mkProfile("x2", domain.Source("other")),
		mkProfile("s1", domain.SourceSeeker),
	}

	out := Interleave(in, seekerMix(2, 1))
	if len(out) != len(in) {
		t.Fatalf("lost or duplicated profiles: in %d, out %d", len(in), len(out))
	}
	seen := map[string]int{}
	for _, p := range out {
		seen[p.ID]++
	}
	for _, p := range in {
		if seen[p.ID] != 1 {
			t.Fatalf("profile %s appears %d times", p.ID, seen[p.ID])
		}
	}
	// The unnamed source trails everything the mix governs.
	if out[len(out)-1].ID != "x2" || out[len(out)-2].ID != "x1" {
		t.Fatalf("unnamed sources should be appended last: %v", ids(out))
	}
}

func TestInterleaveEmptyInput(t *testing.T) {
	if out := Interleave(nil, seekerMix(2, 1)); len(out) != 0 {
		t.Fatalf("got %v", ids(out))
	}
}

func TestInterleaveZeroRatioFallsToRest(t *testing.T) {
	// A governed source with ratio 0 never emits in the round-robin, but
	// conservation still puts its profiles at the tail.
	in := []domain.Profile{
		mkProfile("b1", domain.SourceBusiness),
		mkProfile("j1", domain.SourceJobAd),
	}
	out := Interleave(in, seekerMix(1, 0))
	assertOrder(t, out, "j1", "b1")
}
