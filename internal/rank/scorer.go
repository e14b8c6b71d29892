// Package rank scores candidate profiles against the requesting subject
// and orders the result. Scoring is pure: no I/O, no shared state.
package rank

import (
	"sort"
	"strings"

	"matchfeed-engine/internal/config"
	"matchfeed-engine/internal/domain"
	"matchfeed-engine/internal/geo"
)

// Scorer scores one candidate against one subject.
type Scorer interface {
	Score(subject domain.Subject, candidate domain.Profile) float64
}

// WeightedScorer is the fixed-weight sum documented in the config:
// distance, skills, commitment, experience, industry, and a small
// per-source boost keeping the feed tilted toward actionable results.
type WeightedScorer struct {
	Weights  config.Weights
	RadiusKm float64
	Boosts   map[domain.Source]float64

	// Default stands in when either side lacks valid coordinates.
	Default domain.Location
}

func New(cfg config.Config) WeightedScorer {
	boosts := make(map[domain.Source]float64, len(cfg.Scoring.Boosts))
	for k, v := range cfg.Scoring.Boosts {
		boosts[domain.Source(k)] = v
	}
	return WeightedScorer{
		Weights:  cfg.Scoring.Weights,
		RadiusKm: cfg.Scoring.RadiusKm,
		Boosts:   boosts,
		Default: domain.Location{
			Lat:  cfg.Scoring.DefaultLat,
			Lon:  cfg.Scoring.DefaultLon,
			Name: cfg.Scoring.DefaultLocation,
		},
	}
}

func (s WeightedScorer) Score(subject domain.Subject, candidate domain.Profile) float64 {
	w := s.Weights
	total := w.Distance*s.distanceScore(subject, candidate) +
		w.Skills*s.skillScore(subject, candidate) +
		w.Commitment*commitmentScore(subject, candidate) +
		w.Experience*experienceScore(subject, candidate) +
		w.Industry*industryScore(subject, candidate) +
		w.SourceBoost*s.Boosts[candidate.Source]
	return total
}

// Rank scores every candidate in place and sorts descending. The sort is
// stable so equal scores keep their original relative order.
func (s WeightedScorer) Rank(subject domain.Subject, candidates []domain.Profile) []domain.Profile {
	for i := range candidates {
		score := s.Score(subject, candidates[i])
		candidates[i].Score = &score
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return *candidates[i].Score > *candidates[j].Score
	})
	return candidates
}

func (s WeightedScorer) distanceScore(subject domain.Subject, candidate domain.Profile) float64 {
	a := subject.Location
	if !a.Valid() {
		a = s.Default
	}
	b := candidate.Location
	if !b.Valid() {
		b = s.Default
	}
	km := geo.HaversineKm(a, b)
	if s.RadiusKm > 0 {
		return geo.NormalizedDistanceScore(km, s.RadiusKm)
	}
	return geo.DistanceScore(km)
}

// skillScore uses structured matching when the candidate carries
// structured skills, and falls back to subject-denominated set overlap
// for legacy comma-string profiles.
func (s WeightedScorer) skillScore(subject domain.Subject, candidate domain.Profile) float64 {
	if len(candidate.Skills) > 0 && len(subject.Skills) > 0 {
		return structuredSkillScore(subject.Skills, candidate.Skills)
	}
	return overlapScore(subject.SkillNameSet(), candidate.SkillNameSet())
}

const (
	categoryBonus = 0.1
	verifiedBonus = 0.1
)

func structuredSkillScore(subject, candidate []domain.Skill) float64 {
	if len(subject) == 0 {
		return 0
	}

	var total float64
	for _, want := range subject {
		match, ok := findSkill(candidate, want.Name)
		if !ok {
			continue
		}

		credit := levelCredit(want.Level, match.Level)
		if want.Category != "" && strings.EqualFold(want.Category, match.Category) {
			credit += categoryBonus
		}
		if want.Verified && match.Verified {
			credit += verifiedBonus
		}
		if credit > 1 {
			credit = 1
		}
		total += credit
	}
	return total / float64(len(subject))
}

func findSkill(skills []domain.Skill, name string) (domain.Skill, bool) {
	for _, s := range skills {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return domain.Skill{}, false
}

// levelCredit gives full credit on an exact level match, decaying with
// ordinal distance on the 4-point scale. Unknown levels score as a
// name-only match at middling credit.
func levelCredit(want, have domain.SkillLevel) float64 {
	if want == domain.LevelUnknown || have == domain.LevelUnknown {
		return 0.5
	}
	d := int(want) - int(have)
	if d < 0 {
		d = -d
	}
	credit := 1 - float64(d)/3
	if credit < 0 {
		return 0
	}
	return credit
}

// overlapScore is |intersection| / |subject set|. Asymmetric on purpose:
// the subject's wants set the denominator.
func overlapScore(subject, candidate []string) float64 {
	if len(subject) == 0 {
		return 0
	}
	have := make(map[string]bool, len(candidate))
	for _, n := range candidate {
		have[n] = true
	}
	hits := 0
	for _, n := range subject {
		if have[n] {
			hits++
		}
	}
	return float64(hits) / float64(len(subject))
}

func commitmentScore(subject domain.Subject, candidate domain.Profile) float64 {
	if intersects(subject.DesiredCommitments, candidate.Commitments()) {
		return 1
	}
	return 0
}

// experienceScore is a boolean check: the candidate's experience clears
// the bar relevant to the pairing.
func experienceScore(subject domain.Subject, candidate domain.Profile) float64 {
	switch candidate.Source {
	case domain.SourceJobAd:
		if candidate.JobAd != nil && subject.ExperienceYears >= candidate.JobAd.MinExperience {
			return 1
		}
	case domain.SourceSeeker:
		if candidate.Seeker != nil && candidate.Seeker.ExperienceYears >= subject.ExperienceYears {
			return 1
		}
	case domain.SourceBusiness:
		// Businesses carry no experience requirement of their own.
		return 1
	}
	return 0
}

func industryScore(subject domain.Subject, candidate domain.Profile) float64 {
	if intersects(subject.Industries, candidate.Industries()) {
		return 1
	}
	return 0
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, x := range a {
		set[strings.ToLower(strings.TrimSpace(x))] = true
	}
	for _, y := range b {
		if set[strings.ToLower(strings.TrimSpace(y))] {
			return true
		}
	}
	return false
}
