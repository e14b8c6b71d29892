package domain

import "errors"

// ErrMissingSubject is the only fatal error a feed request can produce.
var ErrMissingSubject = errors.New("missing or invalid subject identity")

type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleBusiness Role = "business"
)

// Subject is the requesting user's side of every score computation.
type Subject struct {
	ID                 string
	Role               Role
	Location           Location
	Skills             []Skill
	LegacySkills       []string
	DesiredCommitments []string
	ExperienceYears    int
	Industries         []string
}

func (s Subject) Validate() error {
	if s.ID == "" {
		return ErrMissingSubject
	}
	if s.Role != RoleSeeker && s.Role != RoleBusiness {
		return ErrMissingSubject
	}
	return nil
}

func (s Subject) SkillNameSet() []string {
	return SkillNames(s.Skills, s.LegacySkills)
}
