package domain

// Source is the origin category of a candidate profile.
type Source string

const (
	SourceSeeker   Source = "seeker"
	SourceBusiness Source = "business"
	SourceJobAd    Source = "jobad"
)

type Location struct {
	Lat  float64
	Lon  float64
	Name string
}

// Valid reports whether the coordinates are usable. (0,0) is treated as
// unset; none of our markets sit in the Gulf of Guinea.
func (l Location) Valid() bool {
	if l.Lat == 0 && l.Lon == 0 {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// Profile is the canonical candidate shape every adapter produces.
// Exactly one of Seeker/Business/JobAd is set, matching Source.
// Score is nil until the scoring engine has run.
type Profile struct {
	ID           string
	Source       Source
	Location     Location
	Skills       []Skill
	LegacySkills []string // normalized names from comma-string encodings
	Score        *float64

	Seeker   *SeekerInfo
	Business *BusinessInfo
	JobAd    *JobAdInfo
}

type SeekerInfo struct {
	Name            string
	Headline        string
	ExperienceYears int
	Industries      []string
	Commitments     []string // work-commitment types the seeker accepts
}

type BusinessInfo struct {
	CompanyName string
	Industry    string
	Commitments []string
}

type JobAdInfo struct {
	Title         string
	CompanyName   string
	Description   string
	URL           string
	Commitments   []string
	MinExperience int
	Industry      string
}

// SkillNameSet returns the profile's normalized skill names.
func (p Profile) SkillNameSet() []string {
	return SkillNames(p.Skills, p.LegacySkills)
}

// DisplayName dispatches on the source tag; every variant is handled.
func (p Profile) DisplayName() string {
	switch p.Source {
	case SourceSeeker:
		if p.Seeker != nil {
			return p.Seeker.Name
		}
	case SourceBusiness:
		if p.Business != nil {
			return p.Business.CompanyName
		}
	case SourceJobAd:
		if p.JobAd != nil {
			if p.JobAd.CompanyName != "" {
				return p.JobAd.CompanyName + ": " + p.JobAd.Title
			}
			return p.JobAd.Title
		}
	}
	return p.ID
}

// Commitments returns the work-commitment types the candidate accepts.
func (p Profile) Commitments() []string {
	switch p.Source {
	case SourceSeeker:
		if p.Seeker != nil {
			return p.Seeker.Commitments
		}
	case SourceBusiness:
		if p.Business != nil {
			return p.Business.Commitments
		}
	case SourceJobAd:
		if p.JobAd != nil {
			return p.JobAd.Commitments
		}
	}
	return nil
}

// Industries returns the candidate's industry tags.
func (p Profile) Industries() []string {
	switch p.Source {
	case SourceSeeker:
		if p.Seeker != nil {
			return p.Seeker.Industries
		}
	case SourceBusiness:
		if p.Business != nil && p.Business.Industry != "" {
			return []string{p.Business.Industry}
		}
	case SourceJobAd:
		if p.JobAd != nil && p.JobAd.Industry != "" {
			return []string{p.JobAd.Industry}
		}
	}
	return nil
}
