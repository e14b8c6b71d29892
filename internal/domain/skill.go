package domain

import "strings"

// SkillLevel is a 4-point ordinal scale. Zero means the level is unknown.
type SkillLevel int

const (
	LevelUnknown SkillLevel = iota
	LevelBeginner
	LevelIntermediate
	LevelAdvanced
	LevelExpert
)

func ParseSkillLevel(s string) SkillLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner", "entry", "junior":
		return LevelBeginner
	case "intermediate", "mid":
		return LevelIntermediate
	case "advanced", "senior":
		return LevelAdvanced
	case "expert", "master":
		return LevelExpert
	default:
		return LevelUnknown
	}
}

func (l SkillLevel) String() string {
	switch l {
	case LevelBeginner:
		return "beginner"
	case LevelIntermediate:
		return "intermediate"
	case LevelAdvanced:
		return "advanced"
	case LevelExpert:
		return "expert"
	default:
		return "unknown"
	}
}

type Skill struct {
	Name     string
	Category string
	Level    SkillLevel
	Verified bool
}

// SkillNames lowercases, trims and dedupes, preserving first-seen order.
func SkillNames(skills []Skill, legacy []string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(n string) {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
	}
	for _, s := range skills {
		add(s.Name)
	}
	for _, n := range legacy {
		add(n)
	}
	return out
}
