package domain

import (
	"reflect"
	"testing"
)

func TestParseSkillLevel(t *testing.T) {
	cases := []struct {
		in   string
		want SkillLevel
	}{
		{"beginner", LevelBeginner},
		{"Intermediate", LevelIntermediate},
		{"ADVANCED", LevelAdvanced},
		{"expert", LevelExpert},
		{"", LevelUnknown},
		{"ninja", LevelUnknown},
	}
	for _, tc := range cases {
		if got := ParseSkillLevel(tc.in); got != tc.want {
			t.Errorf("ParseSkillLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSkillLevelOrdering(t *testing.T) {
	if !(LevelBeginner < LevelIntermediate && LevelIntermediate < LevelAdvanced && LevelAdvanced < LevelExpert) {
		t.Fatalf("skill levels must order beginner < intermediate < advanced < expert")
	}
}

func TestSkillNamesMergesAndDedupes(t *testing.T) {
	got := SkillNames(
		[]Skill{{Name: "Go"}, {Name: "SQL"}},
		[]string{"go", "docker", " Docker "},
	)
	want := []string{"go", "sql", "docker"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSubjectValidate(t *testing.T) {
	ok := Subject{ID: "u1", Role: RoleSeeker}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid subject rejected: %v", err)
	}

	for _, bad := range []Subject{
		{},
		{ID: "u1"},
		{Role: RoleSeeker},
		{ID: "u1", Role: "admin"},
	} {
		if err := bad.Validate(); err != ErrMissingSubject {
			t.Errorf("subject %+v: err = %v, want ErrMissingSubject", bad, err)
		}
	}
}

func TestProfileAccessors(t *testing.T) {
	seeker := Profile{
		Source: SourceSeeker,
		Seeker: &SeekerInfo{Name: "Ada", Commitments: []string{"full-time"}, Industries: []string{"fintech"}},
	}
	if seeker.DisplayName() != "Ada" {
		t.Errorf("seeker display name = %q", seeker.DisplayName())
	}
	if got := seeker.Commitments(); len(got) != 1 || got[0] != "full-time" {
		t.Errorf("seeker commitments = %v", got)
	}
	if got := seeker.Industries(); len(got) != 1 || got[0] != "fintech" {
		t.Errorf("seeker industries = %v", got)
	}

	jobad := Profile{
		Source: SourceJobAd,
		JobAd:  &JobAdInfo{Title: "Go Engineer", CompanyName: "Acme", Industry: "logistics"},
	}
	if jobad.DisplayName() == "" {
		t.Errorf("job ad display name empty")
	}
	if got := jobad.Industries(); len(got) != 1 || got[0] != "logistics" {
		t.Errorf("job ad industries = %v", got)
	}

	// Mismatched payload yields empty accessors, not panics.
	hollow := Profile{Source: SourceBusiness}
	if hollow.DisplayName() != "" || hollow.Commitments() != nil || hollow.Industries() != nil {
		t.Errorf("hollow profile should be empty: %q %v %v",
			hollow.DisplayName(), hollow.Commitments(), hollow.Industries())
	}
}

func TestLocationValid(t *testing.T) {
	if (Location{}).Valid() {
		t.Errorf("zero location must be invalid")
	}
	if (Location{Name: "Paris"}).Valid() {
		t.Errorf("name-only location must be invalid")
	}
	if !(Location{Lat: 48.85, Lon: 2.35}).Valid() {
		t.Errorf("coordinates should be valid")
	}
}
