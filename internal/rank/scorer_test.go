package rank

import (
	"math"
	"testing"

	"matchfeed-engine/internal/config"
	"matchfeed-engine/internal/domain"
)

func TestOverlapScoreSubjectDenominated(t *testing.T) {
	cases := []struct {
		name      string
		subject   []string
		candidate []string
		want      float64
	}{
		{"half overlap", []string{"javascript", "react"}, []string{"javascript", "node"}, 0.5},
		{"full overlap", []string{"go"}, []string{"go", "sql", "docker"}, 1},
		{"no overlap", []string{"go"}, []string{"java"}, 0},
		{"empty subject", nil, []string{"go"}, 0},
		{"empty candidate", []string{"go"}, nil, 0},
	}
	for _, tc := range cases {
		if got := overlapScore(tc.subject, tc.candidate); got != tc.want {
			t.Errorf("%s: got %f, want %f", tc.name, got, tc.want)
		}
	}
}

func TestLevelCredit(t *testing.T) {
	cases := []struct {
		want, have domain.SkillLevel
		credit     float64
	}{
		{domain.LevelExpert, domain.LevelExpert, 1},
		{domain.LevelExpert, domain.LevelAdvanced, 1 - 1.0/3},
		{domain.LevelExpert, domain.LevelBeginner, 0},
		{domain.LevelBeginner, domain.LevelExpert, 0},
		{domain.LevelUnknown, domain.LevelExpert, 0.5},
		{domain.LevelIntermediate, domain.LevelUnknown, 0.5},
	}
	for _, tc := range cases {
		if got := levelCredit(tc.want, tc.have); math.Abs(got-tc.credit) > 1e-9 {
			t.Errorf("levelCredit(%v, %v) = %f, want %f", tc.want, tc.have, got, tc.credit)
		}
	}
}

func TestStructuredSkillScore(t *testing.T) {
	subject := []domain.Skill{
		{Name: "Go", Category: "backend", Level: domain.LevelAdvanced, Verified: true},
		{Name: "SQL", Level: domain.LevelIntermediate},
	}

	t.Run("exact match with bonuses", func(t *testing.T) {
		candidate := []domain.Skill{
			{Name: "go", Category: "Backend", Level: domain.LevelAdvanced, Verified: true},
			{Name: "sql", Level: domain.LevelIntermediate},
		}
		// Go: 1 + category + verified, capped at 1. SQL: 1. Mean = 1.
		if got := structuredSkillScore(subject, candidate); math.Abs(got-1) > 1e-9 {
			t.Fatalf("got %f", got)
		}
	})

	t.Run("partial level match", func(t *testing.T) {
		candidate := []domain.Skill{
			{Name: "go", Level: domain.LevelBeginner},
		}
		// Go: 1 - 2/3 level credit, no bonuses. SQL missing.
		want := (1 - 2.0/3) / 2
		if got := structuredSkillScore(subject, candidate); math.Abs(got-want) > 1e-9 {
			t.Fatalf("got %f, want %f", got, want)
		}
	})

	t.Run("no subject skills", func(t *testing.T) {
		if got := structuredSkillScore(nil, subject); got != 0 {
			t.Fatalf("got %f", got)
		}
	})
}

func testScorer() WeightedScorer {
	return New(config.Default())
}

func TestScoreLegacyOverlapPath(t *testing.T) {
	s := testScorer()
	subject := domain.Subject{
		ID:           "u1",
		Role:         domain.RoleSeeker,
		Location:     domain.Location{Lat: 48.8566, Lon: 2.3522},
		LegacySkills: []string{"javascript", "react"},
	}
	candidate := domain.Profile{
		ID:           "b1",
		Source:       domain.SourceBusiness,
		Location:     domain.Location{Lat: 48.8566, Lon: 2.3522},
		LegacySkills: []string{"javascript", "node"},
		Business:     &domain.BusinessInfo{CompanyName: "Acme"},
	}

	w := s.Weights
	// Same coordinates, half skill overlap, no commitment or industry data,
	// businesses clear the experience check, business source boost.
	want := w.Distance*1 + w.Skills*0.5 + w.Experience*1 + w.SourceBoost*s.Boosts[domain.SourceBusiness]
	if got := s.Score(subject, candidate); math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %f, want %f", got, want)
	}
}

func TestScoreUsesDefaultLocationWhenUnset(t *testing.T) {
	s := testScorer()
	subject := domain.Subject{ID: "u1", Role: domain.RoleSeeker, LegacySkills: []string{"go"}}
	candidate := domain.Profile{
		ID:           "b1",
		Source:       domain.SourceBusiness,
		LegacySkills: []string{"go"},
		Business:     &domain.BusinessInfo{},
	}

	// Both sides fall back to the same default point, so distance is full.
	w := s.Weights
	want := w.Distance*1 + w.Skills*1 + w.Experience*1 + w.SourceBoost*s.Boosts[domain.SourceBusiness]
	if got := s.Score(subject, candidate); math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %f, want %f", got, want)
	}
}

func TestScoreExperienceGate(t *testing.T) {
	s := testScorer()
	subject := domain.Subject{ID: "u1", Role: domain.RoleSeeker, ExperienceYears: 3, LegacySkills: []string{"go"}}

	junior := domain.Profile{
		ID: "j1", Source: domain.SourceJobAd, LegacySkills: []string{"go"},
		JobAd: &domain.JobAdInfo{Title: "Role", MinExperience: 2},
	}
	senior := domain.Profile{
		ID: "j2", Source: domain.SourceJobAd, LegacySkills: []string{"go"},
		JobAd: &domain.JobAdInfo{Title: "Role", MinExperience: 8},
	}

	if s.Score(subject, junior) <= s.Score(subject, senior) {
		t.Fatalf("a clearable experience bar must outscore an uncleared one")
	}
}

func TestScoreCommitmentAndIndustry(t *testing.T) {
	s := testScorer()
	subject := domain.Subject{
		ID: "u1", Role: domain.RoleSeeker,
		LegacySkills:       []string{"go"},
		DesiredCommitments: []string{"full-time"},
		Industries:         []string{"fintech"},
	}
	base := domain.Profile{
		ID: "j1", Source: domain.SourceJobAd, LegacySkills: []string{"go"},
		JobAd: &domain.JobAdInfo{Title: "Role"},
	}
	matching := base
	matching.JobAd = &domain.JobAdInfo{
		Title:       "Role",
		Commitments: []string{"Full-Time"},
		Industry:    "Fintech",
	}

	w := s.Weights
	diff := s.Score(subject, matching) - s.Score(subject, base)
	if math.Abs(diff-(w.Commitment+w.Industry)) > 1e-9 {
		t.Fatalf("commitment+industry lift = %f, want %f", diff, w.Commitment+w.Industry)
	}
}

func TestRankSortsDescendingAndStable(t *testing.T) {
	s := testScorer()
	subject := domain.Subject{ID: "u1", Role: domain.RoleSeeker, LegacySkills: []string{"go", "sql"}}

	mk := func(id string, skills ...string) domain.Profile {
		return domain.Profile{
			ID: id, Source: domain.SourceBusiness, LegacySkills: skills,
			Business: &domain.BusinessInfo{},
		}
	}
	// a and b tie; c scores higher.
	in := []domain.Profile{mk("a", "go"), mk("b", "sql"), mk("c", "go", "sql")}

	out := s.Rank(subject, in)
	if out[0].ID != "c" {
		t.Fatalf("order = %v, %v, %v", out[0].ID, out[1].ID, out[2].ID)
	}
	if out[1].ID != "a" || out[2].ID != "b" {
		t.Fatalf("tie broke input order: %v, %v", out[1].ID, out[2].ID)
	}
	for _, p := range out {
		if p.Score == nil {
			t.Fatalf("profile %s missing score", p.ID)
		}
	}
	if *out[0].Score <= *out[1].Score {
		t.Fatalf("scores not descending: %f then %f", *out[0].Score, *out[1].Score)
	}
}
